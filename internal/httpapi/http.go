package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"CartStore/internal/catalog"
	"CartStore/internal/receipt"
	"CartStore/internal/session"
	"CartStore/internal/shop"
	"CartStore/pkg/kit"
)

const (
	maxBodyBytes = 1 << 16
	readyTimeout = 1 * time.Second
)

type Server struct {
	Sessions *session.Registry
	Tokens   *session.TokenMaker
	Receipts receipt.Store
	Log      *zap.Logger
	Metrics  *kit.Metrics
}

type sessionResp struct {
	SessionID   string    `json:"session_id"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type cartResp struct {
	Items    []catalog.Item `json:"items"`
	Subtotal int64          `json:"subtotal"`
}

type itemReq struct {
	Name *string `json:"name"`
}

func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := s.Receipts.Ping(ctx); err != nil {
		s.Log.Warn("readyz failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) listItems(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.Sessions.Catalog())
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	sess := s.Sessions.Create()

	tok, err := s.Tokens.New(sess.ID, sess.ExpiresAt)
	if err != nil {
		s.Sessions.Delete(sess.ID)
		s.Log.Error("token issue", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	kit.WriteJSON(w, http.StatusCreated, sessionResp{
		SessionID:   sess.ID,
		AccessToken: tok,
		ExpiresAt:   sess.ExpiresAt.UTC(),
	})
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFromContext(r.Context())

	q := r.URL.Query()
	byName, byTag := q.Has("name"), q.Has("hashtag")
	if byName == byTag {
		kit.WriteError(w, r, http.StatusBadRequest, "exactly one of name or hashtag is required", nil)
		return
	}

	var results []catalog.Item
	_ = sess.Do(func(st *shop.Store) error {
		if byName {
			results = st.SearchByName(q.Get("name"))
		} else {
			results = st.SearchByHashtag(q.Get("hashtag"))
		}
		return nil
	})

	kit.WriteJSON(w, http.StatusOK, results)
}

func (s *Server) getCart(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFromContext(r.Context())

	var resp cartResp
	_ = sess.Do(func(st *shop.Store) error {
		resp = cartResp{Items: st.Cart(), Subtotal: st.Checkout()}
		return nil
	})

	kit.WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) addItem(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFromContext(r.Context())

	var req itemReq
	if err := kit.DecodeJSON(w, r, maxBodyBytes, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}
	if req.Name == nil {
		kit.WriteError(w, r, http.StatusBadRequest, "name required", nil)
		return
	}

	var added catalog.Item
	err := sess.Do(func(st *shop.Store) (err error) {
		added, err = st.AddItem(*req.Name)
		return err
	})
	s.observe("add", err)
	if err != nil {
		s.writeLookupError(w, r, err)
		return
	}

	kit.WriteJSON(w, http.StatusCreated, added)
}

func (s *Server) removeItem(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFromContext(r.Context())

	q := r.URL.Query()
	if !q.Has("name") {
		kit.WriteError(w, r, http.StatusBadRequest, "name required", nil)
		return
	}

	var removed catalog.Item
	err := sess.Do(func(st *shop.Store) (err error) {
		removed, err = st.RemoveItem(q.Get("name"))
		return err
	})
	s.observe("remove", err)
	if err != nil {
		s.writeLookupError(w, r, err)
		return
	}

	kit.WriteJSON(w, http.StatusOK, removed)
}

func (s *Server) checkout(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFromContext(r.Context())

	var rc receipt.Receipt
	_ = sess.Do(func(st *shop.Store) error {
		rc = receipt.New(sess.ID, st.Cart(), st.Checkout(), time.Now())
		return nil
	})

	if err := s.Receipts.Create(r.Context(), rc); err != nil {
		s.observe("checkout", err)
		if isTimeoutErr(err) {
			kit.WriteError(w, r, http.StatusGatewayTimeout, "timeout", nil)
			return
		}
		s.Log.Error("store receipt failed", zap.Error(err), zap.String("session_id", sess.ID))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	s.observe("checkout", nil)

	kit.WriteJSON(w, http.StatusCreated, rc)
}

func (s *Server) getReceipt(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFromContext(r.Context())

	id := chi.URLParam(r, "id")
	rc, found, err := s.Receipts.Get(r.Context(), id)
	if err != nil {
		s.Log.Error("get receipt failed", zap.Error(err), zap.String("receipt_id", id))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if !found {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	if rc.SessionID != sess.ID {
		kit.WriteError(w, r, http.StatusForbidden, "forbidden", nil)
		return
	}

	kit.WriteJSON(w, http.StatusOK, rc)
}

func (s *Server) writeLookupError(w http.ResponseWriter, r *http.Request, err error) {
	details := map[string]any{}
	var le *catalog.LookupError
	if errors.As(err, &le) {
		details["query"] = le.Query
		if len(le.Matches) > 0 {
			details["matches"] = le.Matches
		}
	}

	switch {
	case errors.Is(err, catalog.ErrNotFound):
		kit.WriteError(w, r, http.StatusNotFound, "not found", details)
	case errors.Is(err, catalog.ErrAlreadyExists):
		kit.WriteError(w, r, http.StatusConflict, "already exists", details)
	case errors.Is(err, catalog.ErrTooManyMatches):
		kit.WriteError(w, r, http.StatusUnprocessableEntity, "too many matches", details)
	default:
		s.Log.Error("cart operation failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
	}
}

func (s *Server) observe(op string, err error) {
	s.Metrics.ObserveCartOp(op, resultLabel(err))
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, catalog.ErrNotFound):
		return "not_found"
	case errors.Is(err, catalog.ErrAlreadyExists):
		return "already_exists"
	case errors.Is(err, catalog.ErrTooManyMatches):
		return "too_many_matches"
	default:
		return "error"
	}
}

func isTimeoutErr(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
