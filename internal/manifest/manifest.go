// Package manifest renders the Ollama Modelfile that registers a converted
// GGUF file with the serving runtime.
package manifest

import (
	"fmt"
	"os"
	"path"
	"strings"
)

// chatTemplate is the Llama 3 style prompt template written into every Modelfile.
const chatTemplate = `{{- if .System }}<|begin_of_text|><|start_header_id|>system<|end_header_id|>
{{ .System }}<|eot_id|>{{- end }}
<|start_header_id|>user<|end_header_id|>
{{ .Prompt }}<|eot_id|>
<|start_header_id|>assistant<|end_header_id|>
{{ .Response }}<|eot_id|>
`

// Render returns the Modelfile text for ggufPath. Only the base name of
// ggufPath is referenced, relative to the Modelfile's own directory.
//
// systemPrompt is embedded verbatim between triple quotes. A prompt that
// contains `"""` ends the SYSTEM block early; callers own that input.
func Render(ggufPath, systemPrompt string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "FROM ./%s\n", path.Base(ggufPath))
	b.WriteString("TEMPLATE \"\"\"\n")
	b.WriteString(chatTemplate)
	b.WriteString("\"\"\"\n")
	fmt.Fprintf(&b, "SYSTEM \"\"\"%s\"\"\"\n", systemPrompt)
	return b.String()
}

// Write renders the Modelfile and writes it to hostPath, replacing any existing file.
func Write(hostPath, ggufPath, systemPrompt string) error {
	if err := os.WriteFile(hostPath, []byte(Render(ggufPath, systemPrompt)), 0o644); err != nil {
		return fmt.Errorf("write modelfile: %w", err)
	}
	return nil
}
