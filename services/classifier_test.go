package services

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		name  string
		reply string
		want  Category
	}{
		{"error keyword", "There was an error in your setup", CategoryError},
		{"problem keyword", "I see a Problem here", CategoryError},
		{"error wins over code", "There was an error in your code", CategoryError},
		{"success keyword", "That was a success", CategorySuccess},
		{"works keyword", "It works great!", CategorySuccess},
		{"code keyword", "Try this code snippet", CategoryCodeRelated},
		{"query keyword", "Run this QUERY against the table", CategoryCodeRelated},
		{"no match", "hello", CategoryDefault},
		{"empty", "", CategoryDefault},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.reply); got != tc.want {
				t.Errorf("Classify(%q) = %q, want %q", tc.reply, got, tc.want)
			}
		})
	}
}

func TestClipFor(t *testing.T) {
	seen := map[string]bool{}
	for _, cat := range []Category{CategoryError, CategorySuccess, CategoryCodeRelated, CategoryDefault} {
		clip := ClipFor(cat)
		if clip == "" {
			t.Fatalf("no clip for category %q", cat)
		}
		if seen[clip] {
			t.Fatalf("clip %q mapped to more than one category", clip)
		}
		seen[clip] = true
	}

	if ClipFor(Category("bogus")) != ClipFor(CategoryDefault) {
		t.Errorf("unknown category should fall back to the default clip")
	}
}
