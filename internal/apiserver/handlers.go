package apiserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"

	"github.com/slok/taskboard/internal/model"
)

type messageResponse struct {
	Message string `json:"message"`
}

func (s *Server) healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, messageResponse{Message: "ok"})
}

func (s *Server) listTasks(c echo.Context) error {
	tasks, err := s.repo.ListTasks(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tasks)
}

func (s *Server) getTask(c echo.Context) error {
	t, err := s.repo.GetTask(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, t)
}

func (s *Server) createTask(c echo.Context) error {
	var t model.Task
	if err := c.Bind(&t); err != nil {
		return err
	}

	created, err := s.repo.CreateTask(c.Request().Context(), t)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, created)
}

func (s *Server) updateTask(c echo.Context) error {
	id := c.Param("id")

	var t model.Task
	if err := c.Bind(&t); err != nil {
		return err
	}
	if t.ID != "" && t.ID != id {
		return fmt.Errorf("body id %q does not match path id %q: %w", t.ID, id, model.ErrNotValid)
	}
	t.ID = id

	updated, err := s.repo.UpdateTask(c.Request().Context(), t)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, updated)
}

func (s *Server) deleteTask(c echo.Context) error {
	if err := s.repo.DeleteTask(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// handleError writes the error as a JSON message with the status code that
// matches the error kind.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := err.Error()

	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &httpErr):
		code = httpErr.Code
		msg = fmt.Sprint(httpErr.Message)
	case errors.Is(err, model.ErrNotValid):
		code = http.StatusBadRequest
	case errors.Is(err, model.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, model.ErrAlreadyExists):
		code = http.StatusConflict
	}

	if code >= http.StatusInternalServerError {
		s.logger.Errorf("Request failed: %s", err)
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(code)
	} else {
		werr = c.JSON(code, messageResponse{Message: msg})
	}
	if werr != nil {
		s.logger.Errorf("Could not write error response: %s", werr)
	}
}

// sonicSerializer is the echo JSON serializer using sonic.
type sonicSerializer struct{}

func (sonicSerializer) Serialize(c echo.Context, i any, indent string) error {
	api := sonic.ConfigDefault
	if indent != "" {
		data, err := api.MarshalIndent(i, "", indent)
		if err != nil {
			return err
		}
		_, err = c.Response().Write(data)
		return err
	}

	return api.NewEncoder(c.Response()).Encode(i)
}

func (sonicSerializer) Deserialize(c echo.Context, i any) error {
	err := sonic.ConfigDefault.NewDecoder(c.Request().Body).Decode(i)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body: "+err.Error()).SetInternal(err)
	}

	return nil
}
