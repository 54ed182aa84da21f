package main

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"keepara/model"
	"keepara/store"
)

// Messaging handler functions

// MessageRequest is the payload for posting a message into a conversation.
type MessageRequest struct {
	Sender  string `json:"sender"`
	Content string `json:"content"`
}

// ConversationRequest creates a new thread for a client.
type ConversationRequest struct {
	Client   string `json:"client"`
	ClientID *int   `json:"client_id"`
}

// @Summary Get all conversations
// @Description Retrieve conversation threads, most recent activity first, with optional client-name search
// @Tags messages
// @Produce json
// @Param search query string false "Search term"
// @Success 200 {array} model.Conversation "List of conversations"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/conversations [get]
func getConversations(c *gin.Context) {
	records, err := recordStore.GetAll(context.Background(), store.EntityConversation)
	if err != nil {
		handleStoreError(c, err, "fetching conversations")
		return
	}

	search := c.Query("search")
	conversations := []model.Conversation{}
	for _, r := range records {
		conv := model.ConversationFromRecord(r)
		if !matchesAny(search, conv.Client, conv.LastMessage) {
			continue
		}
		conversations = append(conversations, conv)
	}

	sort.SliceStable(conversations, func(i, j int) bool {
		return conversations[i].LastMessageAt.After(conversations[j].LastMessageAt)
	})

	c.JSON(http.StatusOK, conversations)
}

// @Summary Create conversation
// @Description Start a new conversation thread for a client
// @Tags messages
// @Accept json
// @Produce json
// @Param conversation body ConversationRequest true "Conversation data"
// @Success 201 {object} model.Conversation "Created conversation"
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Router /api/conversations [post]
func createConversation(c *gin.Context) {
	var req ConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := validateName(req.Client); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "client cannot be empty"})
		return
	}

	conv := model.Conversation{
		Client:        req.Client,
		ClientID:      req.ClientID,
		LastMessageAt: time.Now().UTC(),
	}
	record, err := recordStore.Create(context.Background(), store.EntityConversation, conv.Fields())
	if err != nil {
		handleStoreError(c, err, "creating conversation")
		return
	}

	c.JSON(http.StatusCreated, model.ConversationFromRecord(record))
}

// @Summary Get messages in a conversation
// @Description Retrieve all messages for a conversation, oldest first
// @Tags messages
// @Produce json
// @Param id path int true "Conversation ID"
// @Success 200 {array} model.Message "Messages"
// @Failure 400 {object} map[string]interface{} "Invalid ID"
// @Failure 404 {object} map[string]interface{} "Conversation not found"
// @Router /api/conversations/{id}/messages [get]
func getMessages(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if _, err := recordStore.GetByID(context.Background(), store.EntityConversation, id); err != nil {
		handleStoreError(c, err, "fetching conversation")
		return
	}

	records, err := recordStore.GetAll(context.Background(), store.EntityMessage)
	if err != nil {
		handleStoreError(c, err, "fetching messages")
		return
	}

	messages := []model.Message{}
	for _, r := range records {
		msg := model.MessageFromRecord(r)
		if msg.ConversationID != id {
			continue
		}
		messages = append(messages, msg)
	}

	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].SentAt.Before(messages[j].SentAt)
	})

	c.JSON(http.StatusOK, messages)
}

// @Summary Post message
// @Description Append a message to a conversation and roll the thread's preview forward
// @Tags messages
// @Accept json
// @Produce json
// @Param id path int true "Conversation ID"
// @Param message body MessageRequest true "Message data"
// @Success 201 {object} model.Message "Created message"
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 404 {object} map[string]interface{} "Conversation not found"
// @Router /api/conversations/{id}/messages [post]
func postMessage(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Sender != "client" && req.Sender != "accountant" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sender must be client or accountant"})
		return
	}
	if err := validateName(req.Content); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content cannot be empty"})
		return
	}

	convRecord, err := recordStore.GetByID(context.Background(), store.EntityConversation, id)
	if err != nil {
		handleStoreError(c, err, "fetching conversation")
		return
	}
	conv := model.ConversationFromRecord(convRecord)

	msg := model.Message{
		ConversationID: id,
		Sender:         req.Sender,
		Content:        req.Content,
		SentAt:         time.Now().UTC(),
		// The author has read their own message.
		Read: req.Sender == "accountant",
	}
	record, err := recordStore.Create(context.Background(), store.EntityMessage, msg.Fields())
	if err != nil {
		handleStoreError(c, err, "creating message")
		return
	}

	unread := conv.UnreadCount
	if req.Sender == "client" {
		unread++
	}
	_, err = recordStore.Update(context.Background(), store.EntityConversation, id, map[string]any{
		"last_message":    req.Content,
		"last_message_at": msg.SentAt.Format(time.RFC3339),
		"unread_count":    unread,
	})
	if err != nil {
		handleStoreError(c, err, "updating conversation")
		return
	}

	c.JSON(http.StatusCreated, model.MessageFromRecord(record))
}

// @Summary Mark conversation read
// @Description Mark every client message in the conversation as read and clear the unread count
// @Tags messages
// @Produce json
// @Param id path int true "Conversation ID"
// @Success 200 {object} model.Conversation "Updated conversation"
// @Failure 400 {object} map[string]interface{} "Invalid ID"
// @Failure 404 {object} map[string]interface{} "Conversation not found"
// @Router /api/conversations/{id}/read [post]
func markConversationRead(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if _, err := recordStore.GetByID(context.Background(), store.EntityConversation, id); err != nil {
		handleStoreError(c, err, "fetching conversation")
		return
	}

	records, err := recordStore.GetAll(context.Background(), store.EntityMessage)
	if err != nil {
		handleStoreError(c, err, "fetching messages")
		return
	}
	for _, r := range records {
		msg := model.MessageFromRecord(r)
		if msg.ConversationID != id || msg.Read {
			continue
		}
		if _, err := recordStore.Update(context.Background(), store.EntityMessage, msg.ID,
			map[string]any{"read": true}); err != nil {
			handleStoreError(c, err, "marking message read")
			return
		}
	}

	updated, err := recordStore.Update(context.Background(), store.EntityConversation, id,
		map[string]any{"unread_count": 0})
	if err != nil {
		handleStoreError(c, err, "updating conversation")
		return
	}

	c.JSON(http.StatusOK, model.ConversationFromRecord(updated))
}
