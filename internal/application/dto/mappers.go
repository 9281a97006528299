package dto

import (
	"github.com/jhoicas/gestoria-api/internal/domain/entity"
	"github.com/jhoicas/gestoria-api/internal/domain/finance"
)

// NewClientResponse mapea la entidad a su salida HTTP.
func NewClientResponse(c *entity.Client) *ClientResponse {
	return &ClientResponse{
		ID:             c.ID,
		FirstName:      c.FirstName,
		LastName:       c.LastName,
		Email:          c.Email,
		Phone:          c.Phone,
		Nationality:    c.Nationality,
		DocumentNumber: c.DocumentNumber,
		DocumentExpiry: c.DocumentExpiry,
		BirthDate:      c.BirthDate,
		Street:         c.Street,
		StreetNumber:   c.StreetNumber,
		Floor:          c.Floor,
		Door:           c.Door,
		Notes:          c.Notes,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// NewCaseFileResponse mapea un expediente. Los nombres quedan vacíos si no se resolvieron.
func NewCaseFileResponse(cf *entity.CaseFile) *CaseFileResponse {
	return &CaseFileResponse{
		ID:             cf.ID,
		Number:         cf.Number,
		OfficialNumber: cf.OfficialNumber,
		ClientID:       cf.ClientID,
		TramiteTypeID:  cf.TramiteTypeID,
		StartDate:      cf.StartDate,
		SubmissionDate: cf.SubmissionDate,
		AgreedPrice:    cf.AgreedPrice,
		Notes:          cf.Notes,
		Status:         string(cf.Status),
		CreatedAt:      cf.CreatedAt,
		UpdatedAt:      cf.UpdatedAt,
	}
}

// NewCaseFileViewResponse mapea un expediente con nombres de cliente y trámite.
func NewCaseFileViewResponse(v *entity.CaseFileView) *CaseFileResponse {
	out := NewCaseFileResponse(&v.CaseFile)
	out.ClientName = v.ClientName
	out.TramiteName = v.TramiteName
	return out
}

// NewCaseFileViewList mapea una lista de expedientes.
func NewCaseFileViewList(list []*entity.CaseFileView) []*CaseFileResponse {
	out := make([]*CaseFileResponse, 0, len(list))
	for _, v := range list {
		out = append(out, NewCaseFileViewResponse(v))
	}
	return out
}

// NewCaseDocumentResponse mapea un ítem del checklist.
func NewCaseDocumentResponse(d *entity.CaseDocument) *CaseDocumentResponse {
	return &CaseDocumentResponse{
		ID:                 d.ID,
		RequiredDocumentID: d.RequiredDocumentID,
		Name:               d.Name,
		Description:        d.Description,
		Order:              d.Order,
		Status:             string(d.Status),
		ReceivedAt:         d.ReceivedAt,
	}
}

// NewHistoryEntryResponse mapea una entrada del historial.
func NewHistoryEntryResponse(e *entity.StatusHistoryEntry) *HistoryEntryResponse {
	out := &HistoryEntryResponse{
		ID:        e.ID,
		NewStatus: string(e.NewStatus),
		ChangedAt: e.ChangedAt,
		UserID:    e.UserID,
	}
	if e.PreviousStatus != nil {
		prev := string(*e.PreviousStatus)
		out.PreviousStatus = &prev
	}
	return out
}

// NewPaymentResponse mapea un pago.
func NewPaymentResponse(p *entity.Payment) *PaymentResponse {
	return &PaymentResponse{
		ID:         p.ID,
		CaseFileID: p.CaseFileID,
		ClientID:   p.ClientID,
		Amount:     p.Amount,
		PaidOn:     p.PaidOn,
		Method:     string(p.Method),
		Concept:    p.Concept,
		Notes:      p.Notes,
		CreatedAt:  p.CreatedAt,
	}
}

// NewPaymentList mapea una lista de pagos.
func NewPaymentList(list []*entity.Payment) []*PaymentResponse {
	out := make([]*PaymentResponse, 0, len(list))
	for _, p := range list {
		out = append(out, NewPaymentResponse(p))
	}
	return out
}

// NewTramiteTypeResponse mapea un tipo de trámite.
func NewTramiteTypeResponse(t *entity.TramiteType) *TramiteTypeResponse {
	return &TramiteTypeResponse{
		ID:        t.ID,
		Name:      t.Name,
		Code:      t.Code,
		BasePrice: t.BasePrice,
		Active:    t.Active,
		CreatedAt: t.CreatedAt,
	}
}

// NewRequiredDocumentResponse mapea un documento requerido.
func NewRequiredDocumentResponse(d *entity.RequiredDocument) *RequiredDocumentResponse {
	return &RequiredDocumentResponse{
		ID:            d.ID,
		TramiteTypeID: d.TramiteTypeID,
		Name:          d.Name,
		Description:   d.Description,
		Order:         d.Order,
		Active:        d.Active,
	}
}

// NewRollupResponse mapea los totales de finance.
func NewRollupResponse(t finance.Totals) *RollupResponse {
	return &RollupResponse{Agreed: t.Agreed, Paid: t.Paid, Pending: t.Pending}
}

// NewUserResponse mapea un perfil.
func NewUserResponse(u *entity.UserProfile) *UserResponse {
	return &UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, AvatarURL: u.AvatarURL, Role: u.Role, CreatedAt: u.CreatedAt}
}

// NewSettingsResponse mapea la configuración de la gestoría.
func NewSettingsResponse(s *entity.AgencySettings) *SettingsResponse {
	return &SettingsResponse{
		Name:            s.Name,
		LogoURL:         s.LogoURL,
		Phone:           s.Phone,
		Email:           s.Email,
		Address:         s.Address,
		City:            s.City,
		PostalCode:      s.PostalCode,
		NumberingFormat: s.NumberingFormat,
		UpdatedAt:       s.UpdatedAt,
	}
}
