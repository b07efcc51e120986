package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/yurift/drift/internal/domain/entities"
	apperrors "github.com/yurift/drift/pkg/errors"
)

// maxBodyBytes bounds the drift request body
const maxBodyBytes = 16 << 10

// DriftSearcher runs the drift pipeline
type DriftSearcher interface {
	Search(ctx context.Context, clientID string, taste entities.TasteVector, point entities.GeoPoint) (*entities.DriftResult, entities.RateLimitDecision, error)
}

// DriftHandler handles POST /api/drift
type DriftHandler struct {
	searcher DriftSearcher
}

// NewDriftHandler creates a new drift handler
func NewDriftHandler(searcher DriftSearcher) *DriftHandler {
	return &DriftHandler{searcher: searcher}
}

type locationRequest struct {
	Lat *float64 `json:"lat" validate:"required,gte=-90,lte=90"`
	Lng *float64 `json:"lng" validate:"required,gte=-180,lte=180"`
}

type driftRequest struct {
	Vibes      []string         `json:"vibes" validate:"required,len=3,unique"`
	Sensations []string         `json:"sensations" validate:"required,min=1,max=4,unique"`
	Location   *locationRequest `json:"location" validate:"required"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func requestValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Search handles POST /api/drift
func (h *DriftHandler) Search(w http.ResponseWriter, r *http.Request) {
	taste, point, err := decodeDriftRequest(w, r)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	result, decision, err := h.searcher.Search(r.Context(), clientIP(r), taste, point)
	writeRateLimitHeaders(w, decision)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrorTypeRateLimited) {
			w.Header().Set("Retry-After", strconv.Itoa(decision.ResetSeconds))
			respondWithError(w, http.StatusTooManyRequests, "rate_limited",
				fmt.Sprintf("レート制限に達しました。%d秒後に再試行してください。", decision.ResetSeconds))
			return
		}
		if apperrors.Is(err, apperrors.ErrorTypeNotFound) {
			respondWithError(w, http.StatusNotFound, "not_found",
				"近くに温泉施設が見つかりませんでした。別の場所で試してください。")
			return
		}
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

func decodeDriftRequest(w http.ResponseWriter, r *http.Request) (entities.TasteVector, entities.GeoPoint, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req driftRequest
	if err := decoder.Decode(&req); err != nil {
		return entities.TasteVector{}, entities.GeoPoint{}, apperrors.NewValidationError("invalid request body: " + err.Error())
	}
	if decoder.More() {
		return entities.TasteVector{}, entities.GeoPoint{}, apperrors.NewValidationError("request body must hold a single JSON object")
	}

	if err := requestValidator().Struct(&req); err != nil {
		return entities.TasteVector{}, entities.GeoPoint{}, apperrors.NewValidationError(describeValidationError(err))
	}

	taste, err := entities.NewTasteVector(req.Vibes, req.Sensations)
	if err != nil {
		return entities.TasteVector{}, entities.GeoPoint{}, err
	}

	point := entities.GeoPoint{Lat: *req.Location.Lat, Lng: *req.Location.Lng}
	if err := point.Validate(); err != nil {
		return entities.TasteVector{}, entities.GeoPoint{}, err
	}

	return taste, point, nil
}

func describeValidationError(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := strings.TrimPrefix(fe.Namespace(), "driftRequest.")
		switch fe.Tag() {
		case "required":
			messages = append(messages, field+" is required")
		case "len":
			messages = append(messages, fmt.Sprintf("%s must contain exactly %s items", field, fe.Param()))
		case "min":
			messages = append(messages, fmt.Sprintf("%s must contain at least %s items", field, fe.Param()))
		case "max":
			messages = append(messages, fmt.Sprintf("%s must contain at most %s items", field, fe.Param()))
		case "unique":
			messages = append(messages, field+" must not contain duplicates")
		case "gte", "lte":
			messages = append(messages, fmt.Sprintf("%s is out of range", field))
		default:
			messages = append(messages, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return strings.Join(messages, "; ")
}

func writeRateLimitHeaders(w http.ResponseWriter, decision entities.RateLimitDecision) {
	if decision.Limit == 0 {
		return
	}
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.Itoa(decision.ResetSeconds))
}
