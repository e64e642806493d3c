package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/candyline/sweet-shop/internal/apperrors"
	"github.com/candyline/sweet-shop/internal/models"
	"github.com/candyline/sweet-shop/internal/mykafka"
	"github.com/candyline/sweet-shop/internal/service"
	"github.com/candyline/sweet-shop/internal/service/search"
)

type SweetHandler struct {
	Inventory *service.InventoryService
	Producer  *mykafka.Producer
	ES        *elasticsearch.Client
}

func (h *SweetHandler) ListSweets(c echo.Context) error {
	sweets, err := h.Inventory.List(c.Request().Context(), c.QueryParam("search"))
	if err != nil {
		return err
	}
	if sweets == nil {
		sweets = []models.Sweet{}
	}
	return c.JSON(http.StatusOK, sweets)
}

func (h *SweetHandler) CreateSweet(c echo.Context) error {
	var req struct {
		Name     string  `json:"name"     validate:"required"`
		Category string  `json:"category" validate:"required"`
		Price    float64 `json:"price"    validate:"gte=0"`
		Quantity int     `json:"quantity" validate:"gte=0"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	sweet, err := h.Inventory.Create(c.Request().Context(), req.Name, req.Category, req.Price, req.Quantity)
	if err != nil {
		return err
	}

	h.syncIndex(c, sweet)
	h.publish(c, map[string]interface{}{
		"type":    "sweet_created",
		"sweetID": sweet.ID,
		"name":    sweet.Name,
	})

	return c.JSON(http.StatusCreated, sweet)
}

func (h *SweetHandler) UpdateSweet(c echo.Context) error {
	id, err := sweetID(c)
	if err != nil {
		return err
	}

	var req struct {
		Name     *string  `json:"name"`
		Category *string  `json:"category"`
		Price    *float64 `json:"price"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	sweet, err := h.Inventory.Update(c.Request().Context(), id, service.SweetUpdate{
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
	})
	if err != nil {
		return err
	}

	h.syncIndex(c, sweet)
	h.publish(c, map[string]interface{}{
		"type":    "sweet_updated",
		"sweetID": sweet.ID,
		"name":    sweet.Name,
	})

	return c.JSON(http.StatusOK, sweet)
}

func (h *SweetHandler) DeleteSweet(c echo.Context) error {
	id, err := sweetID(c)
	if err != nil {
		return err
	}

	if err := h.Inventory.Delete(c.Request().Context(), id); err != nil {
		return err
	}

	if h.ES != nil {
		if err := search.DeleteSweet(c.Request().Context(), h.ES, id); err != nil {
			c.Logger().Errorf("ES delete error: %v", err)
		}
	}
	h.publish(c, map[string]interface{}{
		"type":    "sweet_deleted",
		"sweetID": id,
	})

	return c.JSON(http.StatusOK, echo.Map{"message": "sweet deleted"})
}

func (h *SweetHandler) PurchaseSweet(c echo.Context) error {
	id, err := sweetID(c)
	if err != nil {
		return err
	}

	sweet, err := h.Inventory.Purchase(c.Request().Context(), id)
	if err != nil {
		return err
	}

	h.syncIndex(c, sweet)
	h.publish(c, map[string]interface{}{
		"type":    "sweet_purchased",
		"sweetID": sweet.ID,
		"userID":  c.Get("userID"),
	})

	return c.JSON(http.StatusOK, sweet)
}

func (h *SweetHandler) RestockSweet(c echo.Context) error {
	id, err := sweetID(c)
	if err != nil {
		return err
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	sweet, err := h.Inventory.Restock(c.Request().Context(), id, req.Quantity)
	if err != nil {
		return err
	}

	h.syncIndex(c, sweet)
	h.publish(c, map[string]interface{}{
		"type":    "sweet_restocked",
		"sweetID": sweet.ID,
		"amount":  req.Quantity,
	})

	return c.JSON(http.StatusOK, sweet)
}

func sweetID(c echo.Context) (uint, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, apperrors.Validationf("invalid sweet id")
	}
	return uint(id), nil
}

func (h *SweetHandler) publish(c echo.Context, event map[string]interface{}) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "sweet_events", fmt.Sprint(event["sweetID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *SweetHandler) syncIndex(c echo.Context, sweet models.Sweet) {
	if h.ES == nil {
		return
	}
	if err := search.IndexSweet(c.Request().Context(), h.ES, sweet); err != nil {
		c.Logger().Errorf("ES index error: %v", err)
	}
}
