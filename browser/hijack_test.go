package browser

import (
	"testing"

	"github.com/go-rod/rod/lib/proto"
	"github.com/stretchr/testify/assert"
)

func TestIsTrackerDomain(t *testing.T) {
	tests := []struct {
		host string
		want bool
	}{
		{"doubleclick.net", true},
		{"stats.g.doubleclick.net", true},
		{"WWW.GOOGLE-ANALYTICS.COM", true},
		{"www.zomato.com", false},
		{"net", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			assert.Equal(t, tt.want, isTrackerDomain(tt.host))
		})
	}
}

func TestBlocker(t *testing.T) {
	b := newBlocker([]string{"Image", "Bogus"}, true)

	assert.False(t, b.empty())
	assert.True(t, b.blocks(proto.NetworkResourceTypeImage, "https://b.zmtcdn.com/a.png"))
	assert.False(t, b.blocks(proto.NetworkResourceTypeScript, "https://www.zomato.com/app.js"))
	assert.True(t, b.blocks(proto.NetworkResourceTypeScript, "https://www.googletagmanager.com/gtm.js"))

	assert.True(t, newBlocker(nil, false).empty())
	assert.True(t, newBlocker([]string{"Nope"}, false).empty())
}
