package handler

import (
	"go-pos-ledger/internal/model"
	"go-pos-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ClientHandler struct {
	service service.ClientService
}

func NewClientHandler(s service.ClientService) *ClientHandler {
	return &ClientHandler{service: s}
}

// GetClients lists clients. Query params: q (search term)
func (h *ClientHandler) GetClients(c *fiber.Ctx) error {
	return c.JSON(h.service.SearchClients(c.Query("q")))
}

func (h *ClientHandler) GetClient(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid client ID"})
	}
	client, err := h.service.GetClient(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(client)
}

// CreateClient merges into an existing client with the same identification.
func (h *ClientHandler) CreateClient(c *fiber.Ctx) error {
	var client model.Client
	if err := c.BodyParser(&client); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	saved, created, err := h.service.AddClient(&client, getOperator(c))
	if err != nil {
		return respondError(c, err)
	}
	if !created {
		return c.JSON(fiber.Map{"message": "Client updated", "data": saved})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Client created", "data": saved})
}

func (h *ClientHandler) UpdateClient(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid client ID"})
	}
	var update model.ClientUpdate
	if err := c.BodyParser(&update); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	client, err := h.service.UpdateClient(id, update, getOperator(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Client updated", "data": client})
}

func (h *ClientHandler) DeleteClient(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid client ID"})
	}
	if err := h.service.DeleteClient(id, getOperator(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Client deleted"})
}
