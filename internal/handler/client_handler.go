package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/30secgamer/drivingbackend/internal/middleware"
	"github.com/30secgamer/drivingbackend/internal/model"
	"github.com/30secgamer/drivingbackend/internal/repository"
	"github.com/30secgamer/drivingbackend/internal/response"
	"github.com/30secgamer/drivingbackend/internal/service"
	"github.com/30secgamer/drivingbackend/internal/validator"
)

// ClientHandler handles client record endpoints.
type ClientHandler struct {
	clientService *service.ClientService
	uploadService *service.UploadService
	log           zerolog.Logger
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(clientService *service.ClientService, uploadService *service.UploadService, log zerolog.Logger) *ClientHandler {
	return &ClientHandler{clientService: clientService, uploadService: uploadService, log: log}
}

// Register godoc
// POST /api/client/register
// Minimal client signup with mobile and password only.
func (h *ClientHandler) Register(c *gin.Context) {
	var req model.ClientRegisterRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	client, err := h.clientService.Register(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"client": client})
}

// Login godoc
// POST /api/client/login
// Validates mobile + password, returns a 24h client token and the record.
func (h *ClientHandler) Login(c *gin.Context) {
	var req model.ClientLoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	token, client, err := h.clientService.Login(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, model.ClientLoginResponse{
		Token:  token,
		Client: *client,
	})
}

// Me godoc
// GET /api/client/me
// Returns the record of the currently authenticated client.
func (h *ClientHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	client, err := h.clientService.Get(c.Request.Context(), claims.UserID)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"client": client})
}

// Create godoc
// POST /api/client/create
// Full client creation from a multipart form with optional photo and
// licenseFile attachments.
func (h *ClientHandler) Create(c *gin.Context) {
	var req model.CreateClientRequest
	if fields := validator.BindForm(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	files, err := h.stageFiles(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	defer h.discard(files)

	client, err := h.clientService.Create(c.Request.Context(), req, files)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"client": client})
}

// List godoc
// GET /api/client/
// Lists all clients, newest first.
func (h *ClientHandler) List(c *gin.Context) {
	clients, err := h.clientService.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"clients": clients})
}

// Get godoc
// GET /api/client/:id
func (h *ClientHandler) Get(c *gin.Context) {
	id, ok := h.clientID(c)
	if !ok {
		return
	}

	client, err := h.clientService.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"client": client})
}

// Update godoc
// PUT /api/client/update/:id
// Partial update: only fields present in the form overwrite stored values.
// Attachments provided here replace the stored references.
func (h *ClientHandler) Update(c *gin.Context) {
	id, ok := h.clientID(c)
	if !ok {
		return
	}

	var req model.UpdateClientRequest
	if fields := validator.BindForm(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	files, err := h.stageFiles(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	defer h.discard(files)

	client, err := h.clientService.Update(c.Request.Context(), id, req, files)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"client": client})
}

// Delete godoc
// DELETE /api/client/:id
func (h *ClientHandler) Delete(c *gin.Context) {
	id, ok := h.clientID(c)
	if !ok {
		return
	}

	if err := h.clientService.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Client deleted successfully"})
}

// stageFiles copies any provided attachments into the staging directory.
func (h *ClientHandler) stageFiles(c *gin.Context) (map[model.AttachmentKind]string, error) {
	files := map[model.AttachmentKind]string{}
	for field, kind := range map[string]model.AttachmentKind{
		"photo":       model.AttachmentPhoto,
		"licenseFile": model.AttachmentLicense,
	} {
		file, header, err := c.Request.FormFile(field)
		if err != nil {
			continue // Field not present.
		}
		path, err := h.uploadService.Stage(file, header, kind)
		file.Close()
		if err != nil {
			h.discard(files)
			return nil, err
		}
		files[kind] = path
	}
	return files, nil
}

// discard removes staging copies that were not consumed by an upload.
func (h *ClientHandler) discard(files map[model.AttachmentKind]string) {
	for _, path := range files {
		h.uploadService.Discard(path)
	}
}

// clientID parses the :id route parameter.
func (h *ClientHandler) clientID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}
	return id, true
}

// fail maps service and repository errors onto the response taxonomy.
// Driver detail stays in the server log.
func (h *ClientHandler) fail(c *gin.Context, err error) {
	var fieldErr *service.FieldError

	switch {
	case errors.Is(err, repository.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, repository.ErrDuplicateMobile):
		response.Fail(c, http.StatusBadRequest, response.ErrConflict)
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidCredentials)
	case errors.As(err, &fieldErr):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{fieldErr.Field: fieldErr.Reason})
	case errors.Is(err, service.ErrUnsupportedFileType):
		response.Fail(c, http.StatusBadRequest, response.ErrUnsupportedFile)
	case errors.Is(err, service.ErrFileTooLarge):
		response.Fail(c, http.StatusBadRequest, response.ErrFileTooLarge)
	case errors.Is(err, service.ErrStorageUnavailable):
		h.log.Error().Err(err).Msg("attachment upload failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrStorage)
	default:
		h.log.Error().Err(err).Msg("client operation failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrDatabase)
	}
}
