package fquery

import (
	"testing"
	"time"

	"github.com/npillmayer/fquery/dom/style"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inlineTransition(c *Collection) string {
	v, _ := style.InlineStyle(c.Get(0)).Get("transition")
	return v.String()
}

func TestAnimatedClassChange(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fquery")
	defer teardown()
	//
	page := newTestPage(t)
	defer page.Close()
	li := page.Q(Selector("li.one"))
	li.AddClassAnimated("fade", 300*time.Millisecond)
	assert.True(t, li.HasClass("fade"))
	assert.Equal(t, "0", li.CSS("opacity"))
	assert.Equal(t, "opacity 300ms", inlineTransition(li), "only opacity is affected by .fade")
	require.Equal(t, 1, page.Loop().Pending())
	page.Loop().Advance(299 * time.Millisecond)
	assert.Equal(t, "opacity 300ms", inlineTransition(li))
	page.Loop().Advance(time.Millisecond)
	assert.Equal(t, "", inlineTransition(li))
	assert.Equal(t, "", li.Attr("style"), "empty inline style is removed")
	//
	li.RemoveClassAnimated("fade", 0)
	assert.False(t, li.HasClass("fade"))
	assert.Equal(t, "opacity 400ms", inlineTransition(li), "default duration")
	page.Loop().Advance(400 * time.Millisecond)
	assert.Equal(t, "", inlineTransition(li))
}

func TestAnimatedDisplayChange(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fquery")
	defer teardown()
	//
	page := newTestPage(t)
	defer page.Close()
	note := page.Q(Selector("#note")).SetCSS("color", "blue")
	note.AddClassAnimated("hidden", time.Second)
	assert.Equal(t, "color: blue; transition: display 1s;", note.Attr("style"))
	page.Loop().Advance(time.Second)
	assert.Equal(t, "color: blue;", note.Attr("style"), "other inline properties survive")
}

func TestAnimationWithoutChange(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fquery")
	defer teardown()
	//
	page := newTestPage(t)
	defer page.Close()
	li := page.Q(Selector("li"))
	li.AddClassAnimated("unstyled", 100*time.Millisecond)
	assert.Equal(t, 3, page.Q(Selector(".unstyled")).Len())
	assert.Equal(t, "", inlineTransition(li))
	assert.Equal(t, 0, page.Loop().Pending())
}

func TestAnimationRestart(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fquery")
	defer teardown()
	//
	page := newTestPage(t)
	defer page.Close()
	li := page.Q(Selector("li.two"))
	li.AddClassAnimated("fade", 300*time.Millisecond)
	page.Loop().Advance(100 * time.Millisecond)
	li.RemoveClassAnimated("fade", 300*time.Millisecond)
	assert.Equal(t, 1, page.Loop().Pending(), "earlier removal is canceled")
	page.Loop().Advance(250 * time.Millisecond)
	assert.Equal(t, "opacity 300ms", inlineTransition(li))
	page.Loop().Advance(50 * time.Millisecond)
	assert.Equal(t, "", inlineTransition(li))
}

func TestCloseCancelsTransitions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fquery")
	defer teardown()
	//
	page := newTestPage(t)
	page.Q(Selector("li")).AddClassAnimated("fade", time.Second)
	assert.Equal(t, 3, page.Loop().Pending())
	page.Close()
	assert.Equal(t, 0, page.Loop().Pending())
}

func TestAnimatedPropertiesConfig(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fquery")
	defer teardown()
	//
	props := animatedProperties([]string{"Opacity", "margin", "transition", " ", "opacity"})
	assert.Len(t, props, 5)
	assert.Equal(t, "opacity", props[0])
	assert.Contains(t, props, "margin-top")
	assert.Contains(t, props, "margin-left")
	assert.NotContains(t, props, "transition")
	assert.NotEmpty(t, animatedProperties(nil), "defaults apply")
	//
	cfg := DefaultConfig()
	cfg.Animation.Properties = []string{"color"}
	doc := newTestPage(t).Document()
	page := NewPage(doc, WithConfig(cfg))
	defer page.Close()
	li := page.Q(Selector("li.one")).AddClassAnimated("fade", time.Second)
	assert.Equal(t, "", inlineTransition(li), "opacity is not watched")
}

func TestCSSDuration(t *testing.T) {
	for _, tc := range []struct {
		d    time.Duration
		want string
	}{
		{400 * time.Millisecond, "400ms"},
		{time.Second, "1s"},
		{2 * time.Second, "2s"},
		{1500 * time.Millisecond, "1500ms"},
		{1500 * time.Microsecond, "0.0015s"},
	} {
		assert.Equal(t, tc.want, cssDuration(tc.d))
	}
}
