package main

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"keepara/model"
	"keepara/store"
)

// Client handler functions

// ClientRequest is the create/update payload for a client.
type ClientRequest struct {
	Name  string `json:"Name"`
	Tags  string `json:"Tags"`
	Owner string `json:"Owner"`
}

// @Summary Get all clients
// @Description Retrieve all clients, optionally filtered by a case-insensitive search over name and tags
// @Tags clients
// @Produce json
// @Param search query string false "Search term"
// @Success 200 {array} model.Client "List of clients"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/clients [get]
func getClients(c *gin.Context) {
	records, err := recordStore.GetAll(context.Background(), store.EntityClient)
	if err != nil {
		handleStoreError(c, err, "fetching clients")
		return
	}

	search := c.Query("search")
	clients := []model.Client{}
	for _, r := range records {
		client := model.ClientFromRecord(r)
		if matchesAny(search, client.Name, client.Tags) {
			clients = append(clients, client)
		}
	}

	c.JSON(http.StatusOK, clients)
}

// @Summary Get client by ID
// @Description Retrieve a single client
// @Tags clients
// @Produce json
// @Param id path int true "Client ID"
// @Success 200 {object} model.Client "Client"
// @Failure 400 {object} map[string]interface{} "Invalid ID"
// @Failure 404 {object} map[string]interface{} "Client not found"
// @Router /api/clients/{id} [get]
func getClient(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	record, err := recordStore.GetByID(context.Background(), store.EntityClient, id)
	if err != nil {
		handleStoreError(c, err, "fetching client")
		return
	}

	c.JSON(http.StatusOK, model.ClientFromRecord(record))
}

// @Summary Create client
// @Description Create a new client (name required, tags and owner optional)
// @Tags clients
// @Accept json
// @Produce json
// @Param client body ClientRequest true "Client data"
// @Success 201 {object} model.Client "Created client"
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/clients [post]
func createClient(c *gin.Context) {
	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := validateName(req.Name); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client := model.Client{Name: req.Name, Tags: req.Tags, Owner: req.Owner}
	record, err := recordStore.Create(context.Background(), store.EntityClient, client.Fields())
	if err != nil {
		handleStoreError(c, err, "creating client")
		return
	}

	c.JSON(http.StatusCreated, model.ClientFromRecord(record))
}

// @Summary Update client
// @Description Update an existing client; the record ID is preserved
// @Tags clients
// @Accept json
// @Produce json
// @Param id path int true "Client ID"
// @Param client body ClientRequest true "Updated client data"
// @Success 200 {object} model.Client "Updated client"
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 404 {object} map[string]interface{} "Client not found"
// @Router /api/clients/{id} [put]
func updateClient(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := validateName(req.Name); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client := model.Client{Name: req.Name, Tags: req.Tags, Owner: req.Owner}
	record, err := recordStore.Update(context.Background(), store.EntityClient, id, client.Fields())
	if err != nil {
		handleStoreError(c, err, "updating client")
		return
	}

	c.JSON(http.StatusOK, model.ClientFromRecord(record))
}

// @Summary Delete client
// @Description Delete a specific client by ID
// @Tags clients
// @Produce json
// @Param id path int true "Client ID"
// @Success 200 {object} map[string]interface{} "Client deleted successfully"
// @Failure 400 {object} map[string]interface{} "Invalid ID"
// @Failure 404 {object} map[string]interface{} "Client not found"
// @Router /api/clients/{id} [delete]
func deleteClient(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if _, err := recordStore.Delete(context.Background(), store.EntityClient, id); err != nil {
		handleStoreError(c, err, "deleting client")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Client deleted successfully"})
}
