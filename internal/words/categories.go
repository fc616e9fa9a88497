// internal/words/categories.go
//
// The category list: programming languages that get "eliminated" one per
// wrong guess. Its length minus one is the number of wrong guesses allowed,
// so Assembly (last) is the one that survives and "takes over".

package words

// Category describes one language chip.
type Category struct {
	Name       string `json:"name"`
	Background string `json:"backgroundColor"`
	Color      string `json:"color"`
}

var categories = []Category{
	{Name: "HTML", Background: "#E2680F", Color: "#F9F4DA"},
	{Name: "CSS", Background: "#328AF1", Color: "#F9F4DA"},
	{Name: "JavaScript", Background: "#F4EB13", Color: "#1E1E1E"},
	{Name: "React", Background: "#2ED3E9", Color: "#1E1E1E"},
	{Name: "TypeScript", Background: "#298EC6", Color: "#F9F4DA"},
	{Name: "Node.js", Background: "#599137", Color: "#F9F4DA"},
	{Name: "Python", Background: "#FFD742", Color: "#1E1E1E"},
	{Name: "Ruby", Background: "#D02B2B", Color: "#F9F4DA"},
	{Name: "Assembly", Background: "#2D519F", Color: "#F9F4DA"},
}

// Categories returns a copy of the fixed category list.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// categoryIndex maps a section name to its index, or -1.
func categoryIndex(name string) int {
	for i, c := range categories {
		if c.Name == name {
			return i
		}
	}
	return -1
}
