package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmptyInput(t *testing.T) {
	assert.Equal(t, "", ToDisplayHTML(""))
}

func TestBoldAndItalic(t *testing.T) {
	got := ToDisplayHTML("**oferta** do dia: *leite*")
	assert.Contains(t, got, "<b>oferta</b>")
	assert.Contains(t, got, "<i>leite</i>")
}

func TestListsBecomeBullets(t *testing.T) {
	got := ToDisplayHTML("- leite\n- arroz")
	assert.Contains(t, got, "• leite")
	assert.Contains(t, got, "• arroz")
	assert.NotContains(t, got, "<ul>")
	assert.NotContains(t, got, "<li>")
}

func TestScriptIsStripped(t *testing.T) {
	got := ToDisplayHTML("oi <script>evil()</script>")
	assert.NotContains(t, got, "script")
	assert.NotContains(t, got, "evil")
	assert.Contains(t, got, "oi")
}
