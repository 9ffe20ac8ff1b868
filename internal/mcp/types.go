package mcp

// ModeInput is the (empty) input of the enable, disable and toggle tools.
type ModeInput struct{}

// ModeOutput is the output of the enable, disable and toggle tools.
type ModeOutput struct {
	Mode string `json:"mode" jsonschema:"Streaming mode after the command: enabled or disabled"`
}

// StatusInput is the (empty) input of the streaming_status tool.
type StatusInput struct{}

// StatusOutput is the output of the streaming_status tool.
type StatusOutput struct {
	Mode      string `json:"mode" jsonschema:"enabled or disabled"`
	Headless  string `json:"headless,omitempty" jsonschema:"Name of the headless output while enabled"`
	Physical  string `json:"physical,omitempty" jsonschema:"Name of the mirrored physical output once known"`
	Workspace string `json:"workspace,omitempty" jsonschema:"Focused workspace last observed by the daemon"`
	Mirroring bool   `json:"mirroring" jsonschema:"True while the headless output mirrors the physical one"`
}
