// Package api serves a loaded tokenizer over HTTP.
package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v5"

	"github.com/tokay-ml/tokay/internal/logger"
	"github.com/tokay-ml/tokay/internal/tokenizer"
)

type Server struct {
	tok *tokenizer.Tokenizer
	log logger.Logger
}

func NewServer(tok *tokenizer.Tokenizer, log logger.Logger) *Server {
	if log == nil {
		log = logger.Default()
	}
	return &Server{tok: tok, log: log}
}

func (s *Server) Register(e *echo.Echo) {
	e.POST("/v1/encode", s.handleEncode)
	e.POST("/v1/decode", s.handleDecode)
	e.POST("/v1/chat/template", s.handleChatTemplate)
	e.GET("/v1/tokens/:token", s.handleTokenLookup)
	e.GET("/v1/special_tokens", s.handleSpecialTokens)
	e.GET("/healthz", s.handleHealthz)
}

func (s *Server) handleEncode(c *echo.Context) error {
	req, err := decodeJSON[EncodeRequest](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	addSpecial := req.AddSpecialTokens == nil || *req.AddSpecialTokens
	enc := s.tok.EncodeFull(req.Text, addSpecial)
	id := newRequestID()
	s.log.Debug("encode", "request_id", id, "chars", len(req.Text), "ids", len(enc.InputIDs))
	return c.JSON(http.StatusOK, EncodeResponse{
		RequestID:     id,
		IDs:           enc.InputIDs,
		AttentionMask: enc.AttentionMask,
		Count:         len(enc.InputIDs),
	})
}

func (s *Server) handleDecode(c *echo.Context) error {
	req, err := decodeJSON[DecodeRequest](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	skipSpecial := req.SkipSpecialTokens == nil || *req.SkipSpecialTokens
	text := s.tok.Decode(req.IDs, skipSpecial)
	return c.JSON(http.StatusOK, DecodeResponse{
		RequestID: newRequestID(),
		Text:      text,
	})
}

func (s *Server) handleChatTemplate(c *echo.Context) error {
	req, err := decodeJSON[ChatTemplateRequest](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	if s.tok.ChatTemplate() == "" {
		return writeBadRequest(c, "no chat template configured")
	}
	prompt := s.tok.ApplyChatTemplate(req.Messages, req.AddGenerationPrompt)
	resp := ChatTemplateResponse{
		RequestID: newRequestID(),
		Prompt:    prompt,
	}
	if req.Encode {
		resp.IDs = s.tok.Encode(prompt, false)
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleTokenLookup(c *echo.Context) error {
	token := c.Param("token")
	return c.JSON(http.StatusOK, TokenLookupResponse{
		Token: token,
		ID:    s.tok.TokenToID(token),
	})
}

func (s *Server) handleSpecialTokens(c *echo.Context) error {
	return c.JSON(http.StatusOK, SpecialTokensResponse{
		Pad: s.tok.PadTokenID(),
		Bos: s.tok.BosTokenID(),
		Eos: s.tok.EosTokenID(),
		Unk: s.tok.UnkTokenID(),
	})
}

func (s *Server) handleHealthz(c *echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":     "ok",
		"vocab_size": s.tok.VocabSize(),
	})
}

func writeBadRequest(c *echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, map[string]any{
		"error": apiError{Message: msg, Type: "invalid_request_error"},
	})
}

func decodeJSON[T any](r io.Reader) (T, error) {
	var out T
	dec := json.NewDecoder(r)
	if err := dec.Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}

func newRequestID() string {
	return "req_" + uuid.NewString()
}
