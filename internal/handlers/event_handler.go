package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eventro/eventro/internal/helpers"
	"github.com/eventro/eventro/internal/models"
)

// CreateEvent accepts a multipart form so the event image rides along
// with the fields. Event creation is gated on an active subscription
// for the organizer's email.
func CreateEvent(c *gin.Context) {
	email, exists := c.Get("email")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User email not found in token.")
		return
	}
	organizerEmail := email.(string)

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var subscription models.Subscription
	if err := gormDB.Where("email = ?", organizerEmail).First(&subscription).Error; err != nil {
		helpers.RespondWithError(c, http.StatusForbidden, "An active subscription is required to create events.")
		return
	}

	title := c.PostForm("title")
	description := c.PostForm("description")
	organizedBy := c.PostForm("organized_by")
	eventTime := c.PostForm("event_time")
	address := c.PostForm("address")
	location := c.PostForm("location")
	category := c.PostForm("category")

	if title == "" || description == "" || organizedBy == "" || category == "" {
		helpers.RespondWithError(c, http.StatusBadRequest, "Missing required fields.")
		return
	}

	eventDate, err := time.Parse("2006-01-02", c.PostForm("event_date"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid event date format. Use YYYY-MM-DD.")
		return
	}

	ticketPrice, err := helpers.StringToInt(c.PostForm("ticket_price"))
	if err != nil || ticketPrice < 0 {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid ticket price.")
		return
	}

	event := models.Event{
		ID:             uuid.New(),
		Title:          title,
		Description:    description,
		OrganizedBy:    organizedBy,
		OrganizerEmail: organizerEmail,
		EventDate:      eventDate,
		EventTime:      eventTime,
		Address:        address,
		Location:       location,
		TicketPrice:    ticketPrice,
		Category:       category,
	}

	imageFile, err := c.FormFile("image")
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Image is required.")
		return
	}
	imagePath, err := helpers.UploadFile(c, imageFile, "event_images")
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	event.ImagePath = imagePath

	if err := gormDB.Create(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create event.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Event created successfully.",
		"event_id": event.ID,
	})
}

func ListEvents(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	query := gormDB.Model(&models.Event{})
	if search := c.Query("search"); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var events []models.Event
	if err := query.Order("event_date ASC").Find(&events).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving events.")
		return
	}

	c.JSON(http.StatusOK, events)
}

func GetEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid event ID.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var event models.Event
	if err := gormDB.Where("id = ?", eventID).First(&event).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving event.")
		return
	}

	c.JSON(http.StatusOK, event)
}

func GetEventByName(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var event models.Event
	if err := gormDB.Where("title = ?", c.Param("name")).First(&event).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving event.")
		return
	}

	c.JSON(http.StatusOK, event)
}

func ListEventsByOrganizer(c *gin.Context) {
	organizedBy := c.Query("organized_by")
	if organizedBy == "" {
		helpers.RespondWithError(c, http.StatusBadRequest, "Missing organized_by parameter.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var events []models.Event
	if err := gormDB.Where("organized_by = ?", organizedBy).Find(&events).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving events.")
		return
	}

	c.JSON(http.StatusOK, events)
}

func UpdateEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid event ID.")
		return
	}

	email, exists := c.Get("email")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User email not found in token.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var event models.Event
	if err := gormDB.Where("id = ? AND organizer_email = ?", eventID, email).First(&event).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusForbidden, "Event not found or you don't have permission to update.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding event.")
		return
	}

	if title := c.PostForm("title"); title != "" {
		event.Title = title
	}
	if description := c.PostForm("description"); description != "" {
		event.Description = description
	}
	if eventDateStr := c.PostForm("event_date"); eventDateStr != "" {
		eventDate, err := time.Parse("2006-01-02", eventDateStr)
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid event date format. Use YYYY-MM-DD.")
			return
		}
		event.EventDate = eventDate
	}
	if eventTime := c.PostForm("event_time"); eventTime != "" {
		event.EventTime = eventTime
	}
	if address := c.PostForm("address"); address != "" {
		event.Address = address
	}
	if location := c.PostForm("location"); location != "" {
		event.Location = location
	}
	if category := c.PostForm("category"); category != "" {
		event.Category = category
	}
	if priceStr := c.PostForm("ticket_price"); priceStr != "" {
		ticketPrice, err := helpers.StringToInt(priceStr)
		if err != nil || ticketPrice < 0 {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid ticket price.")
			return
		}
		event.TicketPrice = ticketPrice
	}

	imageFile, err := c.FormFile("image")
	if err == nil {
		imagePath, err := helpers.UploadFile(c, imageFile, "event_images")
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		if event.ImagePath != "" {
			if err := helpers.DeleteFile(event.ImagePath); err != nil {
				fmt.Printf("Error deleting old image: %v\n", err)
			}
		}
		event.ImagePath = imagePath
	}

	if err := gormDB.Save(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update event.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Event updated successfully.",
		"event":   event,
	})
}

func DeleteEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid event ID.")
		return
	}

	email, exists := c.Get("email")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User email not found in token.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	result := gormDB.Where("id = ? AND organizer_email = ?", eventID, email).Delete(&models.Event{})
	if result.Error != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete event.")
		return
	}
	if result.RowsAffected == 0 {
		helpers.RespondWithError(c, http.StatusForbidden, "Event not found or you don't have permission to delete.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully."})
}

// OrderSummary returns the slice of event fields the order screen
// needs: id, title, unit price.
func OrderSummary(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid event ID.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var event models.Event
	if err := gormDB.Where("id = ?", eventID).First(&event).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving event.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":           event.ID,
		"title":        event.Title,
		"ticket_price": event.TicketPrice,
	})
}

// PaymentSummary adds the date/time snapshot the payment screen shows.
func PaymentSummary(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid event ID.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var event models.Event
	if err := gormDB.Where("id = ?", eventID).First(&event).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving event.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":           event.ID,
		"title":        event.Title,
		"event_date":   event.EventDate,
		"event_time":   event.EventTime,
		"ticket_price": event.TicketPrice,
	})
}
