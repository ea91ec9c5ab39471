package models

// Backend labels name the provider a descriptor's model is served by.
const (
	BackendGroq      = "groq"
	BackendOllama    = "ollama"
	BackendAnthropic = "anthropic"
)

// Descriptor describes a selectable chat model.
type Descriptor struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	Backend     string `json:"backend"`
	Description string `json:"description"`
}

var catalog = [...]Descriptor{
	{
		ID:          "llama3-70b-8192",
		Name:        "Llama 3 70B",
		Color:       "#8b5cf6",
		Backend:     BackendGroq,
		Description: "Most capable, hosted on Groq",
	},
	{
		ID:          "llama3.2:1b",
		Name:        "Llama 3.2 1B",
		Color:       "#10b981",
		Backend:     BackendOllama,
		Description: "Small and fast, runs locally",
	},
}

// Catalog returns a copy of the built-in model descriptors. The first entry
// is the default selection.
func Catalog() []Descriptor {
	out := make([]Descriptor, len(catalog))
	copy(out, catalog[:])
	return out
}

// DefaultChatModel is the model used when a chat request names none.
func DefaultChatModel() string {
	return catalog[0].ID
}

// LookupDescriptor finds a built-in descriptor by id.
func LookupDescriptor(id string) (Descriptor, bool) {
	for _, d := range catalog {
		if d.ID == id {
			return d, true
		}
	}
	return Descriptor{}, false
}
