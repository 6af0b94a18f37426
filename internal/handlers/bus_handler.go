package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/swiftbus/booking-backend/internal/database"
	"github.com/swiftbus/booking-backend/internal/models"
)

// BusHandler handles bus fleet administration and route search
type BusHandler struct {
	busRepo   *database.BusRepository
	routeRepo *database.RouteRepository
}

// NewBusHandler creates a new BusHandler
func NewBusHandler(busRepo *database.BusRepository, routeRepo *database.RouteRepository) *BusHandler {
	return &BusHandler{
		busRepo:   busRepo,
		routeRepo: routeRepo,
	}
}

// GetAllBuses lists every bus in the fleet
func (h *BusHandler) GetAllBuses(c *gin.Context) {
	buses, err := h.busRepo.GetAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list buses"})
		return
	}

	c.JSON(http.StatusOK, buses)
}

// SearchRoutes finds active routes by source, destination and travel date
func (h *BusHandler) SearchRoutes(c *gin.Context) {
	source := c.Query("source")
	destination := c.Query("destination")
	dateStr := c.Query("date")

	if source == "" || destination == "" || dateStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Source, destination and date are required"})
		return
	}

	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}

	routes, err := h.routeRepo.Search(source, destination, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search routes"})
		return
	}

	c.JSON(http.StatusOK, routes)
}

// GetBusByID returns a single bus
func (h *BusHandler) GetBusByID(c *gin.Context) {
	bus, err := h.busRepo.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Bus not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load bus"})
		return
	}

	c.JSON(http.StatusOK, bus)
}

// GetBusRoutes lists all routes of a bus
func (h *BusHandler) GetBusRoutes(c *gin.Context) {
	routes, err := h.routeRepo.GetByBusID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list routes"})
		return
	}

	c.JSON(http.StatusOK, routes)
}

// CreateBus registers a new bus (admin only)
func (h *BusHandler) CreateBus(c *gin.Context) {
	var req models.CreateBusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.busRepo.GetByNumber(req.BusNumber); err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bus with this number already exists"})
		return
	} else if !errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing bus"})
		return
	}

	bus := &models.Bus{
		BusNumber:  req.BusNumber,
		BusName:    req.BusName,
		BusType:    req.BusType,
		TotalSeats: req.TotalSeats,
		Amenities:  models.StringArray(req.Amenities),
	}

	if err := h.busRepo.Create(bus); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create bus"})
		return
	}

	c.JSON(http.StatusCreated, bus)
}

// CreateRoute adds a scheduled route to a bus (admin only). The route's seat
// inventory starts as the bus's full seat range.
func (h *BusHandler) CreateRoute(c *gin.Context) {
	bus, err := h.busRepo.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Bus not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load bus"})
		return
	}

	var req models.CreateRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	route := &models.Route{
		BusID:          bus.ID,
		Source:         req.Source,
		Destination:    req.Destination,
		DepartureTime:  req.DepartureTime,
		ArrivalTime:    req.ArrivalTime,
		Fare:           req.Fare,
		TotalSeats:     bus.TotalSeats,
		AvailableSeats: models.SeatRange(bus.TotalSeats),
		IsActive:       true,
	}

	if err := h.routeRepo.Create(route); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create route"})
		return
	}

	c.JSON(http.StatusCreated, route)
}

// UpdateBus updates a bus (admin only)
func (h *BusHandler) UpdateBus(c *gin.Context) {
	var req models.UpdateBusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bus, err := h.busRepo.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Bus not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load bus"})
		return
	}

	bus.BusName = req.BusName
	if req.BusType != "" {
		bus.BusType = req.BusType
	}
	bus.TotalSeats = req.TotalSeats
	if req.Amenities != nil {
		bus.Amenities = models.StringArray(req.Amenities)
	}

	if err := h.busRepo.Update(bus); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update bus"})
		return
	}

	c.JSON(http.StatusOK, bus)
}

// DeleteBus removes a bus and its routes (admin only). Refused while
// bookings still reference one of the bus's routes.
func (h *BusHandler) DeleteBus(c *gin.Context) {
	err := h.busRepo.Delete(c.Param("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Bus not found"})
			return
		}
		if errors.Is(err, database.ErrBusHasBookings) {
			c.JSON(http.StatusConflict, gin.H{"error": "Bus has routes referenced by bookings and cannot be deleted"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete bus"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Bus and its routes deleted successfully"})
}
