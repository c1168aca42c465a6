package handler

import (
	"context"
	"net/http"

	"ceylon-tours-be/internal/logger"
	"ceylon-tours-be/internal/media"
	"ceylon-tours-be/internal/payment"
	"ceylon-tours-be/internal/utils"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type MediaUsage interface {
	Usage(ctx context.Context) (media.Report, error)
}

type SettingsResolver interface {
	Resolve(ctx context.Context, key string) (value, source string, ok bool)
	// Sources lists provider names in lookup order.
	Sources() []string
}

type SettingsWriter interface {
	Set(ctx context.Context, key, value string) error
}

var editableSettings = map[string]bool{
	payment.KeyMerchantID:     true,
	payment.KeyMerchantSecret: true,
	payment.KeyBaseURL:        true,
	payment.KeySandbox:        true,
}

type AdminHandler struct {
	media    MediaUsage
	resolver SettingsResolver
	writer   SettingsWriter
}

func NewAdminHandler(media MediaUsage, resolver SettingsResolver, writer SettingsWriter) *AdminHandler {
	return &AdminHandler{media: media, resolver: resolver, writer: writer}
}

func (h *AdminHandler) MediaUsage(w http.ResponseWriter, r *http.Request) {
	report, err := h.media.Usage(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, report)
}

type settingView struct {
	Key    string `json:"key"`
	Value  string `json:"value,omitempty"`
	Source string `json:"source,omitempty"`
	Set    bool   `json:"set"`
}

type settingsResponse struct {
	Sources  []string      `json:"sources"`
	Settings []settingView `json:"settings"`
}

// Settings reports where each payment setting resolves from, along with the
// provider precedence. The secret's value is never returned.
func (h *AdminHandler) Settings(w http.ResponseWriter, r *http.Request) {
	keys := []string{payment.KeyMerchantID, payment.KeyMerchantSecret, payment.KeyBaseURL, payment.KeySandbox}
	views := make([]settingView, 0, len(keys))
	for _, key := range keys {
		value, source, ok := h.resolver.Resolve(r.Context(), key)
		v := settingView{Key: key, Source: source, Set: ok}
		if key != payment.KeyMerchantSecret {
			v.Value = value
		}
		views = append(views, v)
	}
	utils.WriteJSON(w, http.StatusOK, settingsResponse{Sources: h.resolver.Sources(), Settings: views})
}

type settingRequest struct {
	Value string `json:"value"`
}

func (h *AdminHandler) SaveSetting(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	if !editableSettings[key] {
		utils.WriteJSONError(w, "unknown setting", http.StatusNotFound)
		return
	}

	var in settingRequest
	if err := decodeJSON(w, r, &in); err != nil {
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.writer.Set(r.Context(), key, in.Value); err != nil {
		writeError(w, r, err)
		return
	}

	logger.FromCtx(r.Context()).Info("setting updated",
		zap.String("audit", "security"),
		zap.String("key", key),
	)
	w.WriteHeader(http.StatusNoContent)
}
