package api

import "github.com/tokay-ml/tokay/internal/tokenizer"

// EncodeRequest asks for a text → ids conversion. AddSpecialTokens defaults
// to true when omitted.
type EncodeRequest struct {
	Text             string `json:"text"`
	AddSpecialTokens *bool  `json:"add_special_tokens,omitempty"`
}

type EncodeResponse struct {
	RequestID     string `json:"request_id"`
	IDs           []int  `json:"ids"`
	AttentionMask []int  `json:"attention_mask"`
	Count         int    `json:"count"`
}

// DecodeRequest asks for an ids → text conversion. SkipSpecialTokens
// defaults to true when omitted.
type DecodeRequest struct {
	IDs               []int `json:"ids"`
	SkipSpecialTokens *bool `json:"skip_special_tokens,omitempty"`
}

type DecodeResponse struct {
	RequestID string `json:"request_id"`
	Text      string `json:"text"`
}

type ChatTemplateRequest struct {
	Messages            []tokenizer.Message `json:"messages"`
	AddGenerationPrompt bool                `json:"add_generation_prompt"`
	Encode              bool                `json:"encode"`
}

type ChatTemplateResponse struct {
	RequestID string `json:"request_id"`
	Prompt    string `json:"prompt"`
	IDs       []int  `json:"ids,omitempty"`
}

type TokenLookupResponse struct {
	Token string `json:"token"`
	ID    int    `json:"id"`
}

type SpecialTokensResponse struct {
	Pad int `json:"pad_token_id"`
	Bos int `json:"bos_token_id"`
	Eos int `json:"eos_token_id"`
	Unk int `json:"unk_token_id"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}
