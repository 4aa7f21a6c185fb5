package kardex

import (
	"context"
	"time"

	"github.com/jdrueda/slotstock-api/internal/application/dto"
	dkardex "github.com/jdrueda/slotstock-api/internal/domain/kardex"
)

// Recompute reproduce todo el historial de movimientos de (company, platform)
// y lo compara con el balance incremental almacenado. Es la operación explícita
// de auditoría/reparación: con repair=true sobreescribe el balance con el
// resultado del replay dentro de la misma transacción (bloqueando la fila),
// nunca una ruta alterna silenciosa del camino caliente.
func (uc *LedgerUseCase) Recompute(ctx context.Context, companyID, platformID string, repair bool) (*dto.RecomputeResponse, error) {
	var out *dto.RecomputeResponse
	err := uc.txRunner.Run(ctx, func(tx Repos) error {
		stored, err := tx.Balances.GetForUpdate(companyID, platformID)
		if err != nil {
			return err
		}
		movements, err := tx.Movements.ListByItem(companyID, platformID)
		if err != nil {
			return err
		}
		replayed, err := dkardex.Recompute(movements)
		if err != nil {
			return err
		}

		storedQty := stored.QtyOnHand
		storedAvg := stored.AvgCost
		drift := storedQty != replayed.Qty || !storedAvg.Equal(replayed.AvgCost)
		repaired := false
		if drift && repair {
			stored.QtyOnHand = replayed.Qty
			stored.AvgCost = replayed.AvgCost
			stored.UpdatedAt = time.Now()
			if err := tx.Balances.Upsert(stored); err != nil {
				return err
			}
			repaired = true
		}

		out = &dto.RecomputeResponse{
			PlatformID:    platformID,
			StoredQty:     storedQty,
			StoredAvg:     storedAvg.StringFixed(2),
			RecomputedQty: replayed.Qty,
			RecomputedAvg: replayed.AvgCost.StringFixed(2),
			Drift:         drift,
			Repaired:      repaired,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
