package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eventro/eventro/internal/helpers"
	"github.com/eventro/eventro/internal/models"
)

func AdminStats(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var eventCount, userCount, contactCount, ticketCount int64
	gormDB.Model(&models.Event{}).Count(&eventCount)
	gormDB.Model(&models.User{}).Count(&userCount)
	gormDB.Model(&models.ContactMessage{}).Count(&contactCount)
	gormDB.Model(&models.Ticket{}).Count(&ticketCount)

	c.JSON(http.StatusOK, gin.H{
		"events":   eventCount,
		"users":    userCount,
		"contacts": contactCount,
		"tickets":  ticketCount,
	})
}

func AdminListUsers(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var users []models.User
	if err := gormDB.Find(&users).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch users.")
		return
	}

	c.JSON(http.StatusOK, users)
}

func AdminDeleteUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid user ID.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	if err := gormDB.Where("id = ?", userID).Delete(&models.User{}).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete user.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully."})
}

func AdminListEvents(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var events []models.Event
	if err := gormDB.Find(&events).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch events.")
		return
	}

	c.JSON(http.StatusOK, events)
}

func AdminDeleteEvent(c *gin.Context) {
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

	if err := gormDB.Where("id = ?", eventID).Delete(&models.Event{}).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete event.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully."})
}

func AdminListTickets(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var tickets []models.Ticket
	if err := gormDB.Preload("Seats").Find(&tickets).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch tickets.")
		return
	}

	c.JSON(http.StatusOK, tickets)
}

func AdminListContacts(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var messages []models.ContactMessage
	if err := gormDB.Order("created_at DESC").Find(&messages).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch contact messages.")
		return
	}

	c.JSON(http.StatusOK, messages)
}

func AdminDeleteContact(c *gin.Context) {
	contactID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid contact ID.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	if err := gormDB.Where("id = ?", contactID).Delete(&models.ContactMessage{}).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete contact message.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Contact deleted successfully."})
}
