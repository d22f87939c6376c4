package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cafe-pos/internal/application/dto"
	"github.com/jhoicas/cafe-pos/internal/domain"
	"github.com/jhoicas/cafe-pos/internal/domain/repository"
	"github.com/jhoicas/cafe-pos/pkg/logger"
)

// MovementHandler consulta el libro de movimientos de insumos (solo con PostgreSQL).
type MovementHandler struct {
	repo repository.StockMovementRepository
	log  *logger.Logger
}

func NewMovementHandler(repo repository.StockMovementRepository, log *logger.Logger) *MovementHandler {
	return &MovementHandler{repo: repo, log: log}
}

// List godoc
// @Summary      Movimientos de un insumo (más recientes primero)
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Param        id      path   string  true   "ID del insumo"
// @Param        from    query  string  false  "Desde (RFC3339)"
// @Param        to      query  string  false  "Hasta (RFC3339)"
// @Param        limit   query  int     false  "Máximo de registros" default(50)
// @Param        offset  query  int     false  "Desplazamiento" default(0)
// @Success      200  {array}   dto.StockMovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/catalog/stock/{id}/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	from, err := timeQuery(c, "from")
	if err != nil {
		return writeError(c, h.log, err)
	}
	to, err := timeQuery(c, "to")
	if err != nil {
		return writeError(c, h.log, err)
	}
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 || limit > 500 || offset < 0 {
		return writeError(c, h.log, fmt.Errorf("%w: limit entre 1 y 500, offset no negativo", domain.ErrInvalidInput))
	}

	list, err := h.repo.ListByStockEntry(c.UserContext(), c.Params("id"), from, to, limit, offset)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.StockMovementResponse{
			ID:        m.ID,
			OrderID:   m.OrderID,
			Type:      m.Type,
			Quantity:  m.Quantity,
			Unit:      m.Unit,
			UnitCost:  m.UnitCost,
			TotalCost: m.TotalCost,
			CreatedAt: m.CreatedAt,
			CreatedBy: m.CreatedBy,
		})
	}
	return c.JSON(out)
}

func timeQuery(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s debe ser RFC3339", domain.ErrInvalidInput, key)
	}
	return &t, nil
}
