package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/mnemo-app/mnemo/internal/api/service"
	"github.com/mnemo-app/mnemo/pkg/httpx"
)

type FlashcardsHandler struct {
	FlashcardService *service.FlashcardService
	PageLimits       httpx.PageLimits
}

type flashcardRequest struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

func (req flashcardRequest) input() service.FlashcardInput {
	return service.FlashcardInput{Front: req.Front, Back: req.Back}
}

// cardPath resolves both path parameters. Unparseable IDs read as missing
// resources, same as IDs that point nowhere.
func cardPath(r *http.Request) (deckID, cardID int64, err error) {
	deckID, err = strconv.ParseInt(r.PathValue("deckID"), 10, 64)
	if err != nil {
		return 0, 0, service.ErrNotFound
	}
	cardID, err = strconv.ParseInt(r.PathValue("cardID"), 10, 64)
	if err != nil {
		return 0, 0, service.ErrNotFound
	}
	return deckID, cardID, nil
}

func (h *FlashcardsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	auth := AuthFromContext(r.Context())

	deck, err := deckID(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var req flashcardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteValidation(w, "The given data was invalid", map[string]string{
			"body": "request body must be valid JSON",
		})
		return
	}

	card, err := h.FlashcardService.Create(r.Context(), auth, deck, req.input())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteData(w, httpx.StatusCreated, "Flashcard created", renderFlashcard(card))
}

func (h *FlashcardsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	auth := AuthFromContext(r.Context())

	deck, err := deckID(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	params := httpx.ParsePageParams(r, h.PageLimits)
	limit, offset := params.LimitOffset()

	cards, total, err := h.FlashcardService.List(r.Context(), auth, deck, limit, offset)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WritePage(w, "Flashcards retrieved", renderFlashcards(cards), httpx.NewPageMeta(params, total))
}

func (h *FlashcardsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	auth := AuthFromContext(r.Context())

	deck, card, err := cardPath(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	got, err := h.FlashcardService.Get(r.Context(), auth, deck, card)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteData(w, httpx.StatusSuccess, "Flashcard retrieved", renderFlashcard(got))
}

func (h *FlashcardsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	auth := AuthFromContext(r.Context())

	deck, card, err := cardPath(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var req flashcardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteValidation(w, "The given data was invalid", map[string]string{
			"body": "request body must be valid JSON",
		})
		return
	}

	updated, err := h.FlashcardService.Update(r.Context(), auth, deck, card, req.input())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteData(w, httpx.StatusUpdated, "Flashcard updated", renderFlashcard(updated))
}

func (h *FlashcardsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	auth := AuthFromContext(r.Context())

	deck, card, err := cardPath(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if err := h.FlashcardService.Delete(r.Context(), auth, deck, card); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.Write(w, httpx.StatusDeleted, "Flashcard deleted")
}
