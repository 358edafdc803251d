package speech

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRewrite(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"hour half", "Roast for 1.5 hours.", "Roast for one and a half hours."},
		{"hour half plural", "Braise 2.5 hours", "Braise two and a half hours"},
		{"half an hour", "Rest 0.5 hours", "Rest half an hour"},
		{"decimal hours", "Cook 1.25 hours", "Cook one point two five hours"},
		{"dash range", "Simmer 10-15 minutes", "Simmer 10 to 15 minutes"},
		{"to range", "Bake 20 to 25 mins", "Bake 20 to 25 minutes"},
		{"range with halves", "Roast 1.5-2.5 hours", "Roast one and a half to two and a half hours"},
		{"range with to and halves", "Roast 1.5 to 2 hours", "Roast one and a half to 2 hours"},
		{"minute half", "Whisk 2.5 minutes", "Whisk two and a half minutes"},
		{"half a minute", "Stir 0.5 minutes", "Stir half a minute"},
		{"fahrenheit", "Preheat to 350°F.", "Preheat to 350 degrees Fahrenheit."},
		{"celsius spaced", "Heat to 180 ° C", "Heat to 180 degrees Celsius"},
		{"slash fraction", "Add 1/2 cup milk", "Add one half cup milk"},
		{"glyph fraction", "Add ¾ cup flour", "Add three quarters cup flour"},
		{"mixed fraction", "Add 1 1/2 cups stock", "Add 1 and a half cups stock"},
		{"mixed glyph", "Use 2⅓ cups", "Use 2 and a third cups"},
		{"unrelated", "Chop the onions.", "Chop the onions."},
		{"dates untouched", "Serves 4, page 12", "Serves 4, page 12"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Rewrite(tt.in))
		})
	}
}

func TestRewriteCombined(t *testing.T) {
	got := Rewrite("Bake at 350°F for 1.5 hours")
	assert.Contains(t, got, "one and a half hours")
	assert.Contains(t, got, "350 degrees Fahrenheit")
}

func TestRewriteIsStable(t *testing.T) {
	in := "Bake at 350°F for 1.5 hours, then rest 10-15 minutes with 1/2 cup stock."
	once := Rewrite(in)
	assert.Equal(t, once, Rewrite(once))
}
