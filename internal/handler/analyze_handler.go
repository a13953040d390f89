// Package handler はHTTPハンドラーとルーティングを提供する。
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/gitgazer/internal/middleware"
	"github.com/hitoshi/gitgazer/internal/model"
)

// AnalyzeServiceInterface は分析ハンドラーが必要とするサービスインターフェース。
type AnalyzeServiceInterface interface {
	// Analyze はプロフィールURLを検証し、分析結果を返す。
	Analyze(ctx context.Context, rawURL string) (*model.ProfileSummary, error)
}

// AnalyzeHandler はプロフィール分析のHTTPハンドラー。
type AnalyzeHandler struct {
	service AnalyzeServiceInterface
}

// NewAnalyzeHandler はAnalyzeHandlerを生成する。
func NewAnalyzeHandler(service AnalyzeServiceInterface) *AnalyzeHandler {
	return &AnalyzeHandler{
		service: service,
	}
}

// analyzeRequest は分析リクエストのボディ。
type analyzeRequest struct {
	GitHubURL string `json:"github_url"`
}

// Analyze はプロフィール分析を処理する。
// POST /analyze
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "リクエストボディの解析に失敗しました。",
			Category: "validation",
			Action:   "正しいJSON形式でリクエストしてください。",
		})
		return
	}

	summary, err := h.service.Analyze(r.Context(), req.GitHubURL)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		middleware.WriteErrorResponse(w, mapAPIErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	middleware.WriteInternalServerError(w)
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeEmptyInput, model.ErrCodeMalformedURL, "INVALID_REQUEST":
		return http.StatusBadRequest
	case model.ErrCodeProfileNotFound:
		return http.StatusNotFound
	case model.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case model.ErrCodeUpstreamError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
