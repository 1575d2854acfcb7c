package layout

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"
)

func TestSizeChecks(t *testing.T) {
	assert.True(t, IsTooSmall(79, 40))
	assert.True(t, IsTooSmall(120, 23))
	assert.False(t, IsTooSmall(80, 24))

	assert.True(t, IsCompact(90, 40))
	assert.False(t, IsCompact(120, 40))
}

func TestHeaderCarriesTitleAndStatus(t *testing.T) {
	h := RenderHeader("Protocol 001", "SAVED", 100)
	assert.Contains(t, h, "USB LORD")
	assert.Contains(t, h, "Protocol 001")
	assert.Contains(t, h, "SAVED")
}

func TestFooterListsHints(t *testing.T) {
	f := RenderFooter([]KeyHint{{Key: "Ctrl+S", Description: "Submit"}, {Key: "Esc", Description: "Back"}}, 100)
	assert.Contains(t, f, "Ctrl+S")
	assert.Contains(t, f, "Back")
}

func TestFrameFillsHeight(t *testing.T) {
	header := RenderHeader("t", "", 90)
	footer := RenderFooter(nil, 90)
	frame := RenderFrame(header, "body", footer, 90, 30)
	assert.Equal(t, 30, lipgloss.Height(frame))
	assert.True(t, strings.Contains(frame, "body"))
}
