package domain

// Playbook is a canned procedure the coordinator can hand to agents,
// loaded from YAML files in the playbook directory.
// Fields are ordered to minimize memory padding.
type Playbook struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	Prompt      string   `yaml:"prompt" json:"prompt"`
	Tags        []string `yaml:"tags,omitempty" json:"tags,omitempty"`
	Steps       []string `yaml:"steps,omitempty" json:"steps,omitempty"`
}
