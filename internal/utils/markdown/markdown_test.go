package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const page = `<html><head><title>Acme - Robots</title></head><body>
<nav>Home | About</nav>
<div class="cookie-banner">We use cookies</div>
<main>
<h1>Acme</h1>
<p>We build warehouse robots.</p>
<img src="/logo.png" alt="logo">
</main>
<footer>© Acme</footer>
</body></html>`

func TestConvertHTMLToMarkdownKeepsMainContent(t *testing.T) {
	got := ConvertHTMLToMarkdown(page)
	assert.Contains(t, got, "# Acme")
	assert.Contains(t, got, "We build warehouse robots.")
	assert.NotContains(t, got, "cookies")
	assert.NotContains(t, got, "Home | About")
	assert.NotContains(t, got, "logo.png", "image-only lines are dropped")
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Acme - Robots", Title(page))
	assert.Empty(t, Title("<html><body>no title</body></html>"))
}

func TestConvertEmptyInput(t *testing.T) {
	assert.Empty(t, ConvertHTMLToMarkdown(""))
}
