package provider

// CallParams are the optional generation controls shared by every vendor
// dialect. A nil field is omitted from the wire body entirely; adapters never
// substitute vendor defaults for absent values.
//
// Construct pointer fields with the swag helpers:
//
//	params := &provider.CallParams{
//		Temperature: swag.Float64(0.2),
//		MaxTokens:   swag.Int64(2048),
//	}
type CallParams struct {
	Temperature      *float64
	TopP             *float64
	MaxTokens        *int64
	FrequencyPenalty *float64
	PresencePenalty  *float64
	ReasoningEffort  *string

	_ struct{} // require keyed usage
}

// Usage folds the vendor token counters into one shared shape. Fields the
// vendor did not report stay zero.
type Usage struct {
	PromptTokens     int64 `json:"prompt_tokens,omitempty"`
	CompletionTokens int64 `json:"completion_tokens,omitempty"`
	ThoughtsTokens   int64 `json:"thoughts_tokens,omitempty"`
	TotalTokens      int64 `json:"total_tokens,omitempty"`
}

// IsZero reports whether the vendor reported no counters at all.
func (u Usage) IsZero() bool {
	return u == Usage{}
}
