package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/mnemo-app/mnemo/internal/api/service"
	"github.com/mnemo-app/mnemo/pkg/httpx"
)

type DecksHandler struct {
	DeckService *service.DeckService
	PageLimits  httpx.PageLimits
}

type deckRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	IsPublic    bool   `json:"is_public"`
}

func (req deckRequest) input() service.DeckInput {
	return service.DeckInput{
		Title:       req.Title,
		Description: req.Description,
		IsPublic:    req.IsPublic,
	}
}

func deckID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("deckID"), 10, 64)
	if err != nil {
		return 0, service.ErrNotFound
	}
	return id, nil
}

func (h *DecksHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	auth := AuthFromContext(r.Context())

	var req deckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteValidation(w, "The given data was invalid", map[string]string{
			"body": "request body must be valid JSON",
		})
		return
	}

	deck, err := h.DeckService.Create(r.Context(), auth, req.input())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteData(w, httpx.StatusCreated, "Deck created", renderDeck(deck))
}

func (h *DecksHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	auth := AuthFromContext(r.Context())
	params := httpx.ParsePageParams(r, h.PageLimits)
	limit, offset := params.LimitOffset()

	decks, total, err := h.DeckService.ListMine(r.Context(), auth, limit, offset)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WritePage(w, "Decks retrieved", renderDecks(decks), httpx.NewPageMeta(params, total))
}

func (h *DecksHandler) HandleListPublic(w http.ResponseWriter, r *http.Request) {
	params := httpx.ParsePageParams(r, h.PageLimits)
	limit, offset := params.LimitOffset()

	decks, total, err := h.DeckService.ListPublic(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WritePage(w, "Public decks retrieved", renderDecks(decks), httpx.NewPageMeta(params, total))
}

func (h *DecksHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	auth := AuthFromContext(r.Context())

	id, err := deckID(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	deck, err := h.DeckService.Get(r.Context(), auth, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteData(w, httpx.StatusSuccess, "Deck retrieved", renderDeck(deck))
}

func (h *DecksHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	auth := AuthFromContext(r.Context())

	id, err := deckID(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var req deckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteValidation(w, "The given data was invalid", map[string]string{
			"body": "request body must be valid JSON",
		})
		return
	}

	deck, err := h.DeckService.Update(r.Context(), auth, id, req.input())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteData(w, httpx.StatusUpdated, "Deck updated", renderDeck(deck))
}

func (h *DecksHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	auth := AuthFromContext(r.Context())

	id, err := deckID(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if err := h.DeckService.Delete(r.Context(), auth, id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.Write(w, httpx.StatusDeleted, "Deck deleted")
}
