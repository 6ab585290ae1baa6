package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/phenrril/procar/internal/domain"
	"github.com/phenrril/procar/internal/usecase"
)

type Server struct {
	mux        *http.ServeMux
	items      *usecase.ItemUC
	customers  *usecase.CustomerUC
	orders     *usecase.OrderUC
	uploadsDir string
}

func New(items *usecase.ItemUC, customers *usecase.CustomerUC, orders *usecase.OrderUC, uploadsDir string) http.Handler {
	s := &Server{
		mux:        http.NewServeMux(),
		items:      items,
		customers:  customers,
		orders:     orders,
		uploadsDir: uploadsDir,
	}
	s.routes()
	return Chain(s.mux,
		RateLimit(120),
		RequestID,
		Recovery,
		Logging,
	)
}

func (s *Server) routes() {
	s.mux.Handle("/uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(s.uploadsDir))))

	s.mux.HandleFunc("/api/items", s.handleItems)
	s.mux.HandleFunc("/api/customers", s.handleCustomers)
	s.mux.HandleFunc("/api/orders", s.handleOrders)
	s.mux.HandleFunc("/api/orders/next-number", s.handleNextNumber)
	s.mux.HandleFunc("/api/orders/validate-number", s.handleValidateNumber)
	s.mux.HandleFunc("/api/orders/", s.handleOrderSubtree)
}

// --- items ---

// lineItemDTO coerces numeric fields that clients send either as numbers or
// as strings.
type lineItemDTO struct {
	ID          string      `json:"id"`
	Description string      `json:"description"`
	UnitPrice   json.Number `json:"unit_price"`
	Quantity    json.Number `json:"quantity"`
}

func (d lineItemDTO) toDomain() (domain.LineItem, error) {
	li := domain.LineItem{ID: d.ID, Description: d.Description, Quantity: 1}
	if d.UnitPrice != "" {
		price, err := d.UnitPrice.Float64()
		if err != nil {
			return li, err
		}
		li.UnitPrice = price
	}
	if d.Quantity != "" {
		qty, err := d.Quantity.Float64()
		if err != nil {
			return li, err
		}
		li.Quantity = qty
	}
	return li, nil
}

// handleItems mirrors the dual catalog/order semantics: an order_id query
// parameter switches every verb from the catalog to the order's embedded
// line items.
func (s *Server) handleItems(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		query := r.URL.Query().Get("query")
		if query == "" {
			list, err := s.items.List(r.Context())
			if err != nil {
				s.writeError(w, r, err)
				return
			}
			s.writeJSON(w, http.StatusOK, list)
			return
		}
		results, err := s.items.Query(r.Context(), query)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, results)

	case http.MethodPost:
		var dto lineItemDTO
		if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
			http.Error(w, "json inválido", http.StatusBadRequest)
			return
		}
		li, err := dto.toDomain()
		if err != nil {
			http.Error(w, "precio inválido", http.StatusBadRequest)
			return
		}
		item, err := s.items.Upsert(r.Context(), li)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if raw := r.URL.Query().Get("order_id"); raw != "" {
			orderID, err := uuid.Parse(raw)
			if err != nil {
				http.Error(w, "order_id inválido", http.StatusBadRequest)
				return
			}
			if _, err := s.orders.AttachItem(r.Context(), orderID, *item); err != nil {
				s.writeError(w, r, err)
				return
			}
		}
		s.writeJSON(w, http.StatusOK, item)

	case http.MethodPut:
		var dto lineItemDTO
		if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
			http.Error(w, "json inválido", http.StatusBadRequest)
			return
		}
		li, err := dto.toDomain()
		if err != nil {
			http.Error(w, "precio inválido", http.StatusBadRequest)
			return
		}
		if raw := r.URL.Query().Get("order_id"); raw != "" {
			orderID, err := uuid.Parse(raw)
			if err != nil {
				http.Error(w, "order_id inválido", http.StatusBadRequest)
				return
			}
			if _, err := s.orders.UpdateLineItem(r.Context(), orderID, li); err != nil {
				s.writeError(w, r, err)
				return
			}
			s.writeJSON(w, http.StatusOK, li)
			return
		}
		item, err := s.items.Update(r.Context(), domain.ItemForm{ID: li.ID, Description: li.Description, UnitPrice: li.UnitPrice})
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, item)

	case http.MethodDelete:
		itemID := r.URL.Query().Get("item_id")
		if itemID == "" {
			http.Error(w, "item_id requerido", http.StatusBadRequest)
			return
		}
		if raw := r.URL.Query().Get("order_id"); raw != "" {
			orderID, err := uuid.Parse(raw)
			if err != nil {
				http.Error(w, "order_id inválido", http.StatusBadRequest)
				return
			}
			if _, err := s.orders.DetachItem(r.Context(), orderID, itemID); err != nil {
				s.writeError(w, r, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if err := s.items.Delete(r.Context(), itemID); err != nil {
			s.writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "método no permitido", http.StatusMethodNotAllowed)
	}
}

// --- customers ---

func (s *Server) handleCustomers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "método no permitido", http.StatusMethodNotAllowed)
		return
	}
	query := r.URL.Query().Get("query")
	if query == "" {
		list, err := s.customers.List(r.Context())
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, list)
		return
	}
	results, err := s.customers.Query(r.Context(), query)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, results)
}

// --- orders ---

type orderFormDTO struct {
	Customer          domain.CustomerForm `json:"customer"`
	Items             []lineItemDTO       `json:"items"`
	Number            string              `json:"number"`
	OrderDate         int64               `json:"order_date"`
	Validity          *int64              `json:"validity"`
	Discount          json.Number         `json:"discount"`
	AdditionalCharges json.Number         `json:"additional_charges"`
	Notes             string              `json:"notes"`
	PaymentTerms      string              `json:"payment_terms"`
}

// orderResponse adds the derived totals to the aggregate's wire shape.
type orderResponse struct {
	*domain.Order
	Subtotal float64 `json:"subtotal"`
	Total    float64 `json:"total"`
}

func toOrderResponse(o *domain.Order) orderResponse {
	return orderResponse{Order: o, Subtotal: o.Subtotal(), Total: o.Total()}
}

func toOrderResponses(orders []domain.Order) []orderResponse {
	out := make([]orderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, toOrderResponse(&orders[i]))
	}
	return out
}

func (s *Server) handleOrders(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		query := r.URL.Query().Get("query")
		if query == "" {
			list, err := s.orders.List(r.Context())
			if err != nil {
				s.writeError(w, r, err)
				return
			}
			s.writeJSON(w, http.StatusOK, toOrderResponses(list))
			return
		}
		results, err := s.orders.Query(r.Context(), query)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, toOrderResponses(results))

	case http.MethodPost:
		var dto orderFormDTO
		if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
			http.Error(w, "json inválido", http.StatusBadRequest)
			return
		}
		form, err := dto.toDomain()
		if err != nil {
			http.Error(w, "números inválidos", http.StatusBadRequest)
			return
		}
		o, err := s.orders.Create(r.Context(), form)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusCreated, toOrderResponse(o))

	default:
		http.Error(w, "método no permitido", http.StatusMethodNotAllowed)
	}
}

func (d orderFormDTO) toDomain() (domain.OrderForm, error) {
	form := domain.OrderForm{
		Customer:     d.Customer,
		Number:       d.Number,
		OrderDate:    d.OrderDate,
		Validity:     d.Validity,
		Notes:        d.Notes,
		PaymentTerms: d.PaymentTerms,
	}
	if d.Discount != "" {
		v, err := d.Discount.Float64()
		if err != nil {
			return form, err
		}
		form.Discount = v
	}
	if d.AdditionalCharges != "" {
		v, err := d.AdditionalCharges.Float64()
		if err != nil {
			return form, err
		}
		form.AdditionalCharges = v
	}
	for _, it := range d.Items {
		li, err := it.toDomain()
		if err != nil {
			return form, err
		}
		form.Items = append(form.Items, li)
	}
	return form, nil
}

func (s *Server) handleNextNumber(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "método no permitido", http.StatusMethodNotAllowed)
		return
	}
	n, err := s.orders.NextNumber(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]int64{"number": n})
}

func (s *Server) handleValidateNumber(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "método no permitido", http.StatusMethodNotAllowed)
		return
	}
	number := r.URL.Query().Get("number")
	if number == "" {
		http.Error(w, "number requerido", http.StatusBadRequest)
		return
	}
	valid, err := s.orders.ValidateNumber(r.Context(), number)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"valid": valid})
}

// handleOrderSubtree routes /api/orders/{id}[/attachments[/{attachment_id}]|/pdf].
func (s *Server) handleOrderSubtree(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/orders/"), "/"), "/")
	id, err := uuid.Parse(parts[0])
	if err != nil {
		http.Error(w, "id inválido", http.StatusBadRequest)
		return
	}

	switch {
	case len(parts) == 1:
		s.handleOrderByID(w, r, id)
	case len(parts) == 2 && parts[1] == "attachments" && r.Method == http.MethodPost:
		s.handleUploadAttachments(w, r, id)
	case len(parts) == 3 && parts[1] == "attachments" && r.Method == http.MethodDelete:
		o, err := s.orders.DeleteAttachment(r.Context(), id, parts[2])
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, toOrderResponse(o))
	case len(parts) == 2 && parts[1] == "pdf" && r.Method == http.MethodPost:
		path, err := s.orders.ExportPDF(r.Context(), id)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]string{"path": path})
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleOrderByID(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	switch r.Method {
	case http.MethodGet:
		o, err := s.orders.Get(r.Context(), id)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, toOrderResponse(o))

	case http.MethodPatch, http.MethodPut:
		var patch domain.OrderPatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			http.Error(w, "json inválido", http.StatusBadRequest)
			return
		}
		o, err := s.orders.Update(r.Context(), id, patch)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, toOrderResponse(o))

	case http.MethodDelete:
		if err := s.orders.Delete(r.Context(), id); err != nil {
			s.writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "método no permitido", http.StatusMethodNotAllowed)
	}
}

// handleUploadAttachments reads a multipart form: file parts under "files",
// one JSON metadata array under "attachments" paired positionally.
func (s *Server) handleUploadAttachments(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if err := r.ParseMultipartForm(25 << 20); err != nil {
		http.Error(w, "multipart inválido", http.StatusBadRequest)
		return
	}

	var meta []domain.Attachment
	if raw := r.FormValue("attachments"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &meta); err != nil {
			http.Error(w, "metadatos inválidos", http.StatusBadRequest)
			return
		}
	}

	var files []domain.FileUpload
	for _, fh := range r.MultipartForm.File["files"] {
		f, err := fh.Open()
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		files = append(files, domain.FileUpload{Name: fh.Filename, Data: data})
	}

	o, err := s.orders.UploadAttachments(r.Context(), id, files, meta)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toOrderResponse(o))
}

// --- helpers ---

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("codificar respuesta")
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrInvalidPrice), errors.Is(err, domain.ErrAttachmentMismatch):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrDuplicateNumber):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("error interno")
		http.Error(w, "error interno", http.StatusInternalServerError)
	}
}
