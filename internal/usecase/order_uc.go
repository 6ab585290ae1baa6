package usecase

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/phenrril/procar/internal/domain"
	"github.com/phenrril/procar/internal/fuzzy"
)

// OrderUC owns the order aggregate: numbering, cross-entity search,
// connect-or-create creation, partial updates, the attachment lifecycle and
// the printable export.
type OrderUC struct {
	Orders       domain.OrderRepo
	Customers    domain.CustomerRepo
	Storage      domain.FileStorage
	Filler       domain.FormFiller
	TemplatePath string
	ExportDir    string
}

func (uc *OrderUC) List(ctx context.Context) ([]domain.Order, error) {
	return uc.Orders.List(ctx)
}

func (uc *OrderUC) Get(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return uc.Orders.FindByID(ctx, id)
}

// NextNumber returns one past the numerically largest assigned number, or 1
// when no orders exist. Numbers are parsed before comparing; string order
// would put "9" after "10".
func (uc *OrderUC) NextNumber(ctx context.Context) (int64, error) {
	orders, err := uc.Orders.List(ctx)
	if err != nil {
		return 0, err
	}
	var highest int64
	for _, o := range orders {
		n, err := strconv.ParseInt(o.Number, 10, 64)
		if err != nil {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	return highest + 1, nil
}

// ValidateNumber reports whether no existing order carries the number.
// Advisory only: two concurrent creators can both pass, the unique index on
// orders.number is the real guard.
func (uc *OrderUC) ValidateNumber(ctx context.Context, number string) (bool, error) {
	_, err := uc.Orders.FindByNumber(ctx, number)
	if errors.Is(err, domain.ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return false, nil
}

// Query matches orders by number first, then appends every order of each
// fuzzy-matched customer, skipping duplicates. The two phases stay separate
// so a customer-name search surfaces all of that customer's orders even when
// none of their numbers resemble the query.
func (uc *OrderUC) Query(ctx context.Context, value string) ([]domain.Order, error) {
	list, err := uc.Orders.List(ctx)
	if err != nil {
		return nil, err
	}
	customers, err := uc.Customers.List(ctx)
	if err != nil {
		return nil, err
	}

	numbers := make([]string, len(list))
	for i, o := range list {
		numbers[i] = o.Number
	}

	results := []domain.Order{}
	seen := map[uuid.UUID]struct{}{}
	for _, m := range fuzzy.Rank(value, numbers) {
		results = append(results, list[m.Index])
		seen[list[m.Index].ID] = struct{}{}
	}

	for _, c := range fuzzy.Filter(value, customers, func(c domain.Customer) string { return c.Name }) {
		for _, o := range list {
			if o.CustomerID != c.ID {
				continue
			}
			if _, ok := seen[o.ID]; ok {
				continue
			}
			results = append(results, o)
			seen[o.ID] = struct{}{}
		}
	}
	return results, nil
}

func (uc *OrderUC) Create(ctx context.Context, form domain.OrderForm) (*domain.Order, error) {
	for _, it := range form.Items {
		if it.UnitPrice < 0 {
			return nil, domain.ErrInvalidPrice
		}
	}

	number := strings.TrimSpace(form.Number)
	if number == "" {
		n, err := uc.NextNumber(ctx)
		if err != nil {
			return nil, err
		}
		number = strconv.FormatInt(n, 10)
	} else {
		free, err := uc.ValidateNumber(ctx, number)
		if err != nil {
			return nil, err
		}
		if !free {
			return nil, domain.ErrDuplicateNumber
		}
	}

	var customerID uuid.UUID
	if form.Customer.ID != "" {
		id, err := uuid.Parse(form.Customer.ID)
		if err != nil {
			return nil, fmt.Errorf("id de cliente inválido: %w", err)
		}
		customerID = id
	} else if strings.TrimSpace(form.Customer.Name) == "" {
		return nil, errors.New("nombre de cliente requerido")
	}

	orderDate := form.OrderDate
	if orderDate == 0 {
		orderDate = time.Now().UnixMilli()
	}
	items := form.Items
	if items == nil {
		items = []domain.LineItem{}
	}

	o := &domain.Order{
		ID:                uuid.New(),
		Number:            number,
		OrderDate:         orderDate,
		Validity:          form.Validity,
		Discount:          form.Discount,
		AdditionalCharges: form.AdditionalCharges,
		Notes:             form.Notes,
		PaymentTerms:      form.PaymentTerms,
		Items:             items,
		Attachments:       []domain.Attachment{},
		CustomerID:        customerID,
		Customer: domain.Customer{
			ID:           customerID,
			Name:         form.Customer.Name,
			Email:        form.Customer.Email,
			CpfCnpj:      form.Customer.CpfCnpj,
			RgIe:         form.Customer.RgIe,
			Address:      form.Customer.Address,
			Neighborhood: form.Customer.Neighborhood,
			City:         form.Customer.City,
			State:        form.Customer.State,
			Phone:        form.Customer.Phone,
			Cep:          form.Customer.Cep,
		},
	}
	if err := uc.Orders.Create(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// Update applies a partial patch and returns the reloaded post-update
// aggregate; callers never observe stale state.
func (uc *OrderUC) Update(ctx context.Context, id uuid.UUID, patch domain.OrderPatch) (*domain.Order, error) {
	if patch.Items != nil {
		for _, it := range *patch.Items {
			if it.UnitPrice < 0 {
				return nil, domain.ErrInvalidPrice
			}
		}
	}
	if patch.Number != nil {
		existing, err := uc.Orders.FindByNumber(ctx, *patch.Number)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, domain.ErrDuplicateNumber
		}
	}
	return uc.Orders.Update(ctx, id, patch)
}

func (uc *OrderUC) Delete(ctx context.Context, id uuid.UUID) error {
	return uc.Orders.Delete(ctx, id)
}

// AttachItem appends a line item snapshot to the order.
func (uc *OrderUC) AttachItem(ctx context.Context, orderID uuid.UUID, li domain.LineItem) (*domain.Order, error) {
	o, err := uc.Orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	items := append(append([]domain.LineItem{}, o.Items...), li)
	return uc.Orders.Update(ctx, orderID, domain.OrderPatch{Items: &items})
}

// UpdateLineItem edits one embedded snapshot in place. This is the only path
// for changing a price or description already frozen into an order.
func (uc *OrderUC) UpdateLineItem(ctx context.Context, orderID uuid.UUID, li domain.LineItem) (*domain.Order, error) {
	o, err := uc.Orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	items := append([]domain.LineItem{}, o.Items...)
	found := false
	for i := range items {
		if items[i].ID == li.ID {
			items[i] = li
			found = true
		}
	}
	if !found {
		return nil, domain.ErrNotFound
	}
	return uc.Orders.Update(ctx, orderID, domain.OrderPatch{Items: &items})
}

func (uc *OrderUC) DetachItem(ctx context.Context, orderID uuid.UUID, itemID string) (*domain.Order, error) {
	o, err := uc.Orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	items := make([]domain.LineItem, 0, len(o.Items))
	for _, it := range o.Items {
		if it.ID != itemID {
			items = append(items, it)
		}
	}
	return uc.Orders.Update(ctx, orderID, domain.OrderPatch{Items: &items})
}

// UploadAttachments stores each payload under the order's namespace, stamps
// the returned URL onto the metadata record paired by position and persists
// the grown collection.
func (uc *OrderUC) UploadAttachments(ctx context.Context, orderID uuid.UUID, files []domain.FileUpload, meta []domain.Attachment) (*domain.Order, error) {
	if len(files) != len(meta) {
		return nil, domain.ErrAttachmentMismatch
	}
	o, err := uc.Orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	attachments := append([]domain.Attachment{}, o.Attachments...)
	namespace := "orders/" + orderID.String()
	for i, f := range files {
		url, err := uc.Storage.Save(ctx, namespace, f.Name, f.Data)
		if err != nil {
			return nil, fmt.Errorf("guardar adjunto %q: %w", f.Name, err)
		}
		att := meta[i]
		if att.ID == "" {
			att.ID = uuid.NewString()
		}
		att.URL = url
		attachments = append(attachments, att)
	}
	return uc.Orders.Update(ctx, orderID, domain.OrderPatch{Attachments: &attachments})
}

// DeleteAttachment drops the matching record from the collection. The stored
// bytes stay behind; the file store keeps no index to delete by URL safely.
func (uc *OrderUC) DeleteAttachment(ctx context.Context, orderID uuid.UUID, attachmentID string) (*domain.Order, error) {
	o, err := uc.Orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	kept := make([]domain.Attachment, 0, len(o.Attachments))
	for _, att := range o.Attachments {
		if att.ID != attachmentID {
			kept = append(kept, att)
		}
	}
	return uc.Orders.Update(ctx, orderID, domain.OrderPatch{Attachments: &kept})
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// ExportPDF flattens the order into the template's named fields and hands
// them to the form filler. The filename derives from the customer name and
// the order number.
func (uc *OrderUC) ExportPDF(ctx context.Context, id uuid.UUID) (string, error) {
	o, err := uc.Orders.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("Pedido_%s_%s.xlsx", whitespaceRe.ReplaceAllString(o.Customer.Name, "_"), o.Number)
	return uc.Filler.Fill(ctx, uc.TemplatePath, exportFields(o), filepath.Join(uc.ExportDir, filename))
}

// exportFields produces the fixed header and footer fields plus one group of
// four positionally suffixed fields per line item, in item order. The
// template's field names must match exactly.
func exportFields(o *domain.Order) []domain.FormField {
	validity := ""
	if o.Validity != nil {
		validity = formatDate(*o.Validity)
	}
	fields := []domain.FormField{
		{Name: "order_number", Value: o.Number},
		{Name: "order_date", Value: formatDate(o.OrderDate)},
		{Name: "order_validity", Value: validity},
		{Name: "customer_name", Value: o.Customer.Name},
		{Name: "customer_email", Value: o.Customer.Email},
		{Name: "customer_cpf_cnpj", Value: o.Customer.CpfCnpj},
		{Name: "customer_rg_ie", Value: o.Customer.RgIe},
		{Name: "customer_address", Value: o.Customer.Address},
		{Name: "customer_neighborhood", Value: o.Customer.Neighborhood},
		{Name: "customer_city", Value: o.Customer.City},
		{Name: "customer_state", Value: o.Customer.State},
		{Name: "customer_phone", Value: o.Customer.Phone},
		{Name: "customer_cep", Value: o.Customer.Cep},

		{Name: "order_discount", Value: currencyBRL(o.Discount)},
		{Name: "order_additional_charges", Value: currencyBRL(o.AdditionalCharges)},
		{Name: "order_subtotal", Value: currencyBRL(o.Subtotal())},
		{Name: "order_total", Value: currencyBRL(o.Total())},

		{Name: "order_payment_terms", Value: o.PaymentTerms},
		{Name: "order_notes", Value: o.Notes},
	}
	for i, it := range o.Items {
		fields = append(fields,
			domain.FormField{Name: fmt.Sprintf("item_%d", i), Value: strconv.Itoa(i + 1)},
			domain.FormField{Name: fmt.Sprintf("quantity_%d", i), Value: formatQuantity(it.Quantity)},
			domain.FormField{Name: fmt.Sprintf("description_%d", i), Value: it.Description},
			domain.FormField{Name: fmt.Sprintf("price_%d", i), Value: currencyBRL(it.UnitPrice)},
		)
	}
	return fields
}
