package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/MuazAshraf/pharmacy-pos/domain"
	"github.com/MuazAshraf/pharmacy-pos/internal/report"
	"github.com/MuazAshraf/pharmacy-pos/internal/store"
)

type ctxKey string

const (
	ctxUserID   ctxKey = "userID"
	ctxUsername ctxKey = "username"
)

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	store  store.Store
	secret string
	origin string
}

// New constructs a Handler.
func New(st store.Store, secret, origin string) *Handler {
	return &Handler{store: st, secret: secret, origin: origin}
}

// Router wires up the HTTP API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{h.origin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.health)
	r.Post("/signup", h.signup)
	r.Post("/login", h.login)

	r.Group(func(pr chi.Router) {
		pr.Use(h.authMiddleware)

		pr.Route("/medicines", func(r chi.Router) {
			r.Get("/", h.listMedicines)
			r.Post("/", h.createMedicine)
			r.Put("/", h.updateMedicine)
		})

		pr.Post("/bills", h.createBill)
		pr.Get("/reports", h.reports)
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Authentication

type authClaims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func (h *Handler) generateToken(userID int64, username string) (string, error) {
	claims := authClaims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.secret))
}

func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			respondError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		tokenString := strings.TrimSpace(header[len("Bearer "):])
		token, err := jwt.ParseWithClaims(tokenString, &authClaims{}, func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwt.SigningMethodHS256 {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(h.secret), nil
		})
		if err != nil || !token.Valid {
			respondError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		claims, ok := token.Claims.(*authClaims)
		if !ok {
			respondError(w, http.StatusUnauthorized, "invalid token claims")
			return
		}
		ctx := context.WithValue(r.Context(), ctxUserID, claims.UserID)
		ctx = context.WithValue(ctx, ctxUsername, claims.Username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to secure password")
		return
	}

	if _, err := h.store.CreateUser(r.Context(), req.Username, string(hashed)); err != nil {
		if errors.Is(err, store.ErrDuplicateUser) {
			respondError(w, http.StatusConflict, "username already exists")
			return
		}
		respondError(w, http.StatusInternalServerError, "an error occurred during signup")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "User created successfully"})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.store.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		respondError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}

	token, err := h.generateToken(user.ID, user.Username)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to generate token")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"token":   token,
		"user":    map[string]any{"id": user.ID, "username": user.Username},
	})
}

// Medicines

func (h *Handler) listMedicines(w http.ResponseWriter, r *http.Request) {
	medicines, err := h.store.ListMedicines(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch medicines: "+err.Error())
		return
	}
	respondJSON(w, http.StatusOK, medicines)
}

func (h *Handler) createMedicine(w http.ResponseWriter, r *http.Request) {
	var input domain.MedicineInput
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	medicine, err := h.store.CreateMedicine(r.Context(), input)
	if err != nil {
		if errors.Is(err, store.ErrInvalidInput) {
			respondError(w, http.StatusBadRequest, "brandName is required and quantity must not be negative")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to add medicine: "+err.Error())
		return
	}
	respondJSON(w, http.StatusOK, medicine)
}

func (h *Handler) updateMedicine(w http.ResponseWriter, r *http.Request) {
	var medicine domain.Medicine
	if err := decodeJSON(r, &medicine); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.UpdateMedicine(r.Context(), medicine); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			respondError(w, http.StatusNotFound, fmt.Sprintf("medicine %d not found", medicine.ID))
		case errors.Is(err, store.ErrInvalidInput):
			respondError(w, http.StatusBadRequest, "id is required and quantity must not be negative")
		default:
			respondError(w, http.StatusInternalServerError, "failed to update medicine: "+err.Error())
		}
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Billing

func (h *Handler) createBill(w http.ResponseWriter, r *http.Request) {
	// Cart payloads carry full medicine rows per item, so no
	// DisallowUnknownFields here.
	var bill domain.BillRequest
	if err := json.NewDecoder(r.Body).Decode(&bill); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if bill.Total == 0 || len(bill.Items) == 0 {
		respondError(w, http.StatusBadRequest, "Invalid bill data. Missing total, items, or empty items array.")
		return
	}

	billID, err := h.store.CreateBill(r.Context(), bill)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrInsufficientStock):
			respondError(w, http.StatusConflict, "failed to create bill: "+err.Error())
		case errors.Is(err, store.ErrInvalidInput):
			respondError(w, http.StatusBadRequest, "failed to create bill: "+err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "failed to create bill: "+err.Error())
		}
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "billId": billID})
}

// Reports

func (h *Handler) reports(w http.ResponseWriter, r *http.Request) {
	startDate := strings.TrimSpace(r.URL.Query().Get("startDate"))
	endDate := strings.TrimSpace(r.URL.Query().Get("endDate"))
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}

	if startDate == "" || endDate == "" {
		respondError(w, http.StatusBadRequest, "Start date and end date are required")
		return
	}
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "startDate must be in YYYY-MM-DD format")
		return
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "endDate must be in YYYY-MM-DD format")
		return
	}

	// Widen the date bounds to full days.
	end = end.Add(24*time.Hour - time.Second)

	rep, err := h.store.Report(r.Context(), start, end)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to generate report: "+err.Error())
		return
	}

	if format == "pdf" {
		pdfBytes, err := report.RenderPDF(rep, startDate, endDate)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "failed to render report: "+err.Error())
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=report-%s-to-%s.pdf", startDate, endDate))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(pdfBytes)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"sales":     rep.Sales,
		"purchases": rep.Purchases,
	})
}

// Helpers

func decodeJSON(r *http.Request, dest interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
