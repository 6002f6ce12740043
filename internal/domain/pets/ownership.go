package pets

import "context"

// CustomerOf expone el cliente dueño de una mascota.
// Lo usan appointments y packages para validar que la mascota sea del cliente
// sin importar este paquete completo.
func (s *Service) CustomerOf(ctx context.Context, companyID, petID string) (string, error) {
	p, err := s.GetByID(ctx, companyID, petID)
	if err != nil {
		return "", err
	}
	return p.CustomerID, nil
}
