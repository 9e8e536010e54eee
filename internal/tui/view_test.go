package tui_test

import (
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/nikbrunner/nt/internal/tui"
	"github.com/nikbrunner/nt/internal/tui/layout"
)

func render(app tui.App) string {
	return layout.StripANSI(app.View())
}

func TestView_BeforeLoad(t *testing.T) {
	app := tui.NewApp(newFixture(t).params()).WithDimensions(120, 30)
	view := render(app)

	assert.Assert(t, is.Contains(view, "Loading..."))
	assert.Assert(t, is.Contains(view, "Notes service not configured"))
	assert.Assert(t, is.Contains(view, "Feeds not configured"))
}

func TestView_Dashboard(t *testing.T) {
	app := newFixture(t).app(t).WithDimensions(120, 30)
	view := render(app)

	assert.Assert(t, is.Contains(view, "Apps GitHub Twitter"))
	assert.Assert(t, is.Contains(view, "Bookmarks bar/"))
	assert.Assert(t, is.Contains(view, "Other bookmarks/"))
	assert.Assert(t, is.Contains(view, "Hackathons"))
	assert.Assert(t, is.Contains(view, "s:search"))
}

func TestView_Breadcrumb(t *testing.T) {
	app := press(t, newFixture(t).app(t), "l", "l").WithDimensions(120, 30)
	assert.Assert(t, is.Contains(render(app), "Bookmarks > Bookmarks bar > Work"))

	app = press(t, app, "x")
	view := render(app)
	assert.Assert(t, is.Contains(view, "0:Bookmarks > 1:Bookmarks bar > 2:Work"))
	assert.Assert(t, is.Contains(view, "~ GitHub"))
	assert.Assert(t, is.Contains(view, "0-9:drop on crumb"))
}

func TestView_SearchModal(t *testing.T) {
	app := press(t, newFixture(t).app(t), "s").WithDimensions(120, 30)
	app = typeText(app, "tools")
	view := render(app)

	assert.Assert(t, is.Contains(view, "Search bookmarks"))
	assert.Assert(t, is.Contains(view, "> Tools/"))
	assert.Assert(t, is.Contains(view, "Bookmarks > Bookmarks bar > Work"))
}

func TestView_ConfirmDelete(t *testing.T) {
	app := press(t, newFixture(t).app(t), "l", "d").WithDimensions(120, 30)

	assert.Assert(t, is.Contains(render(app), `Delete folder and everything in it "Work"?`))
}

func TestView_Help(t *testing.T) {
	app := press(t, newFixture(t).app(t), "?").WithDimensions(120, 40)
	view := render(app)

	assert.Assert(t, is.Contains(view, "drop on breadcrumb"))
	assert.Assert(t, is.Contains(view, "search bookmarks"))
}

func TestView_ErrorLine(t *testing.T) {
	app := press(t, newFixture(t).app(t), "l", "x", "5").WithDimensions(120, 30)

	assert.Assert(t, is.Contains(render(app), "Error: breadcrumb index out of range: 5"))
}
