// File: internal/dom/document_test.go
package dom_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/forceps-cli/internal/dom"
)

const testHTML = `
	<html>
	<body>
		<div id="header">
			<h1>Welcome</h1>
		</div>
		<div class="content">
			<p>P1</p><p>P2</p>
			<ul>
				<li>Item 1</li>
				<li>Item 2</li>
				<li id="special">Item 3</li>
			</ul>
		</div>
		<form>
			<input type="text" name="q">
			<button id="go">Go</button>
		</form>
	</body>
	</html>
	`

func TestParseLenientMarkup(t *testing.T) {
	tests := []struct {
		name string
		html string
	}{
		{"unclosed tags", `<html><body><div><p>open<p>still open</body>`},
		{"unknown elements", `<html><body><wizzle><frob>x</frob></wizzle></body></html>`},
		{"bare fragment", `<button id="b">Click</button>`},
		{"stray closing tags", `</div><p>text</p></span>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := dom.Parse(tt.html)
			require.NoError(t, err, "lenient parsing must tolerate ugly markup")
			assert.NotEmpty(t, doc.Elements())
		})
	}
}

func TestParseRejectsEmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\t"} {
		_, err := dom.Parse(input)
		require.Error(t, err)
		assert.ErrorIs(t, err, dom.ErrParse)
	}
}

func TestElementTree(t *testing.T) {
	doc, err := dom.Parse(testHTML)
	require.NoError(t, err)

	buttons := doc.Find(func(el *dom.Element) bool { return el.Tag == "button" })
	require.Len(t, buttons, 1)
	btn := buttons[0]

	assert.Equal(t, "go", btn.Attr("id"))
	assert.Equal(t, "Go", btn.Text)
	require.NotNil(t, btn.Parent)
	assert.Equal(t, "form", btn.Parent.Tag)

	// Document order indices are strictly increasing across a find.
	all := doc.Elements()
	for i := 1; i < len(all); i++ {
		assert.Greater(t, all[i].Index, all[i-1].Index)
	}
}

func TestSiblingPosition(t *testing.T) {
	doc, err := dom.Parse(testHTML)
	require.NoError(t, err)

	items := doc.Find(func(el *dom.Element) bool { return el.Tag == "li" })
	require.Len(t, items, 3)

	pos, count := items[1].SiblingPosition()
	assert.Equal(t, 2, pos)
	assert.Equal(t, 3, count)

	// The lone h1 is first of one.
	h1 := doc.Find(func(el *dom.Element) bool { return el.Tag == "h1" })
	require.Len(t, h1, 1)
	pos, count = h1[0].SiblingPosition()
	assert.Equal(t, 1, pos)
	assert.Equal(t, 1, count)
}

func TestCountMatches(t *testing.T) {
	doc, err := dom.Parse(testHTML)
	require.NoError(t, err)

	tests := []struct {
		name  string
		expr  string
		count int
	}{
		{"by id", `//li[@id='special']`, 1},
		{"all list items", `//li`, 3},
		{"by class", `//div[@class='content']`, 1},
		{"no matches is zero, not an error", `//article`, 0},
		{"text match", `//li[text()='Item 2']`, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := doc.CountMatches(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.count, n)
		})
	}
}

func TestCountMatchesInvalidExpression(t *testing.T) {
	doc, err := dom.Parse(testHTML)
	require.NoError(t, err)

	for _, expr := range []string{"", "//li[", "///", "//li[@id='x'"} {
		_, err := doc.CountMatches(expr)
		require.Error(t, err, "expression %q must be rejected", expr)
		assert.True(t, errors.Is(err, dom.ErrInvalidExpression), "got %v", err)
	}
}

func TestMatchesReturnsElements(t *testing.T) {
	doc, err := dom.Parse(testHTML)
	require.NoError(t, err)

	els, err := doc.Matches(`//li`)
	require.NoError(t, err)
	require.Len(t, els, 3)
	assert.Equal(t, "Item 1", els[0].Text)
	assert.Equal(t, "special", els[2].Attr("id"))
}

func TestValidateExpression(t *testing.T) {
	assert.NoError(t, dom.ValidateExpression(`//div[@id='x']`))
	assert.Error(t, dom.ValidateExpression(`//div[`))
}

func TestSummary(t *testing.T) {
	doc, err := dom.Parse(testHTML)
	require.NoError(t, err)

	s := doc.Summary()
	assert.Equal(t, 3, s.TagCounts["li"])
	assert.Equal(t, 2, s.TagCounts["div"])
	assert.Equal(t, 1, s.TagCounts["form"])
	assert.GreaterOrEqual(t, s.MaxDepth, 4)
	assert.Equal(t, len(doc.Elements()), s.TotalElements)

	var ids []string
	for _, el := range s.Identified {
		if el.ID != "" {
			ids = append(ids, el.ID)
		}
	}
	assert.ElementsMatch(t, []string{"header", "special", "go"}, ids)

	// input, button are interactive; div is not.
	var tags []string
	for _, el := range s.Interactive {
		tags = append(tags, el.Tag)
	}
	assert.ElementsMatch(t, []string{"input", "button"}, tags)
}

func TestAttrOrderIsSourceOrder(t *testing.T) {
	doc, err := dom.Parse(`<html><body><input type="text" name="q" class="search"></body></html>`)
	require.NoError(t, err)

	inputs := doc.Find(func(el *dom.Element) bool { return el.Tag == "input" })
	require.Len(t, inputs, 1)
	assert.Equal(t, []string{"type", "name", "class"}, inputs[0].AttrNames)
}

func TestDirectTextExcludesDescendants(t *testing.T) {
	doc, err := dom.Parse(`<html><body><div>outer<span>inner</span></div></body></html>`)
	require.NoError(t, err)

	divs := doc.Find(func(el *dom.Element) bool { return el.Tag == "div" })
	require.Len(t, divs, 1)
	assert.Equal(t, "outer", divs[0].Text)
	assert.False(t, strings.Contains(divs[0].Text, "inner"))
}