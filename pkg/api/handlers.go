package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/abhijeet-0165/ridefusion/pkg/logger"
	"github.com/abhijeet-0165/ridefusion/pkg/models"
)

type topUpRequest struct {
	Amount int64 `json:"amount"`
}

func errFields(c *gin.Context, err error) []logger.Field {
	return []logger.Field{
		logger.String("request_id", GetRequestID(c)),
		logger.String("path", c.FullPath()),
		logger.Error(err),
	}
}

func (h *handler) signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	user, err := h.svc.User().Signup(c.Request.Context(), req)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *handler) login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	user, err := h.svc.User().Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *handler) searchRides(c *gin.Context) {
	var filter models.RideFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondError(c, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	rides, err := h.svc.Ride().Search(c.Request.Context(), filter)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, rides)
}

func (h *handler) publishRide(c *gin.Context) {
	var req models.PublishRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	ctx := c.Request.Context()
	driver, err := h.svc.User().GetByID(ctx, currentUser(c))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	if driver == nil {
		respondError(c, http.StatusUnauthorized, "unauthorized", "unknown user")
		return
	}

	ride, err := h.svc.Ride().Publish(ctx, driver, req)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ride)
}

func (h *handler) driverRides(c *gin.Context) {
	rides, err := h.svc.Ride().GetDriverRides(c.Request.Context(), currentUser(c))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, rides)
}

func (h *handler) deleteRide(c *gin.Context) {
	if err := h.svc.Ride().Delete(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) book(c *gin.Context) {
	res, err := h.svc.Booking().Book(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *handler) bookings(c *gin.Context) {
	bookings, err := h.svc.Booking().GetUserBookings(c.Request.Context(), currentUser(c))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *handler) cancel(c *gin.Context) {
	res, err := h.svc.Booking().Cancel(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *handler) wallet(c *gin.Context) {
	w, err := h.svc.Wallet().Load(c.Request.Context(), currentUser(c))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

func (h *handler) topUp(c *gin.Context) {
	var req topUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	w, err := h.svc.Wallet().TopUp(c.Request.Context(), currentUser(c), req.Amount)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

func (h *handler) passes(c *gin.Context) {
	passes, err := h.svc.Pass().LoadActive(c.Request.Context(), currentUser(c))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, passes)
}

func (h *handler) passCatalog(c *gin.Context) {
	offers, err := h.svc.Pass().CatalogFor(c.Request.Context(), currentUser(c))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, offers)
}

func (h *handler) purchasePass(c *gin.Context) {
	optionID, err := strconv.Atoi(c.Param("optionId"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "bad_request", "optionId must be a number")
		return
	}
	res, err := h.svc.Pass().Purchase(c.Request.Context(), currentUser(c), optionID)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *handler) dashboard(c *gin.Context) {
	var filter models.RideFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondError(c, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	d, err := h.svc.Dashboard().Snapshot(c.Request.Context(), currentUser(c), filter)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}
