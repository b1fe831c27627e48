package scanning

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// stripFences removes markdown code-fence markers that models sometimes wrap
// around a JSON reply, despite being told not to. Replies without fences pass
// through unchanged.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// parseExtraction parses a model reply into an ExtractionResult. The reply
// must contain a JSON object with all four contract keys and a non-negative
// numeric valor; anything else fails the extraction as a whole.
func parseExtraction(text string) (*ExtractionResult, error) {
	text = stripFences(text)

	// Bracket the first { to the last } so chatter around the object is ignored
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end < start {
		return nil, fmt.Errorf("no JSON object found in model reply")
	}

	var wire struct {
		Local   *string      `json:"local"`
		Data    *string      `json:"data"`
		Valor   *json.Number `json:"valor"`
		Horario *string      `json:"horario"`
	}
	dec := json.NewDecoder(strings.NewReader(text[start : end+1]))
	dec.UseNumber()
	if err := dec.Decode(&wire); err != nil {
		return nil, fmt.Errorf("unmarshaling model reply: %w", err)
	}

	for key, present := range map[string]bool{
		"local":   wire.Local != nil,
		"data":    wire.Data != nil,
		"valor":   wire.Valor != nil,
		"horario": wire.Horario != nil,
	} {
		if !present {
			return nil, fmt.Errorf("model reply missing %q", key)
		}
	}

	valor, err := wire.Valor.Float64()
	if err != nil {
		return nil, fmt.Errorf("valor is not numeric: %w", err)
	}
	if valor < 0 {
		return nil, fmt.Errorf("valor is negative: %v", valor)
	}

	return &ExtractionResult{
		Location:    strings.TrimSpace(*wire.Local),
		Date:        strings.TrimSpace(*wire.Data),
		AmountCents: int(math.Round(valor * 100)),
		Time:        strings.TrimSpace(*wire.Horario),
	}, nil
}
