package server

import (
	"bytes"
	"net/http"
	"net/url"

	"taskhub/internal/apperr"
	"taskhub/internal/db/models"
	"taskhub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (s *Server) healthz(c *gin.Context) {
	if err := s.store.Ping(c.Request.Context()); err != nil {
		s.log.Errorw("health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortBinding(c, err)
		return
	}
	token, err := s.directory.Login(c.Request.Context(), req.Phone, req.Password)
	if apperr.Is(err, apperr.KindInvalidCredentials) {
		errorID := uuid.New().String()
		s.log.Warnw("login failed", "errorID", errorID, "phone", req.Phone, "reason", apperr.Message(err))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": gin.H{"msg": apperr.Message(err), "error_id": errorID}})
		return
	}
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (s *Server) getStatus(c *gin.Context) {
	status, err := s.directory.Status(c.Param("token"))
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortBinding(c, err)
		return
	}
	err := s.directory.Register(c.Request.Context(), service.Registration{
		Name:     req.Name,
		Phone:    req.Phone,
		Password: req.Password,
		Status:   req.Status,
	})
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "Ok"})
}

func (s *Server) getUsers(c *gin.Context) {
	users, err := s.directory.ListUsers(c.Request.Context())
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (s *Server) deleteUser(c *gin.Context) {
	var req deleteUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortBinding(c, err)
		return
	}
	if err := s.directory.DeleteUser(c.Request.Context(), req.ID); err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User and related data successfully deleted"})
}

func (s *Server) deleteGroup(c *gin.Context) {
	var req deleteGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortBinding(c, err)
		return
	}
	if err := s.directory.DeleteGroup(c.Request.Context(), req.GroupName); err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Group successfully deleted"})
}

func (s *Server) getUsersAdd(c *gin.Context) {
	contacts, err := s.directory.ListAssigners(c.Request.Context())
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, contacts)
}

func (s *Server) getUsersReceive(c *gin.Context) {
	contacts, err := s.directory.ListReceivers(c.Request.Context())
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, contacts)
}

func (s *Server) createGroup(c *gin.Context) {
	var req createGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortBinding(c, err)
		return
	}
	if err := s.directory.CreateGroup(c.Request.Context(), req.GroupName, req.ManagerPhone, req.UserPhones); err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Group successfully created"})
}

func (s *Server) getGroups(c *gin.Context) {
	groups, err := s.directory.ListGroups(c.Request.Context())
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

func (s *Server) editUser(c *gin.Context) {
	var req editUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortBinding(c, err)
		return
	}
	err := s.directory.EditUser(c.Request.Context(), service.UserEdit{
		ID:       req.ID,
		Name:     req.Name,
		Password: req.Password,
		Status:   req.Status,
	})
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User updated successfully"})
}

func (s *Server) editGroup(c *gin.Context) {
	var req editGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortBinding(c, err)
		return
	}
	err := s.directory.EditGroup(c.Request.Context(), req.GroupName, models.GroupUpdate{
		ManagerPhone: req.ManagerPhone,
		UserPhones:   req.UserPhones,
		Active:       *req.Active,
	})
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Group updated successfully"})
}

func (s *Server) groupReport(c *gin.Context) {
	group := c.Param("group")
	var buf bytes.Buffer
	if err := s.completions.GroupReport(c.Request.Context(), group, &buf); err != nil {
		s.abort(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+url.PathEscape(group)+`.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (s *Server) getMyGroups(c *gin.Context) {
	names, err := s.directory.MyGroups(c.Request.Context(), c.GetString(phoneKey))
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, names)
}

func (s *Server) getMyInfo(c *gin.Context) {
	user, err := s.directory.MyInfo(c.Request.Context(), c.GetString(phoneKey))
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (s *Server) createTask(c *gin.Context) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortBinding(c, err)
		return
	}
	task, err := s.tasks.CreateTask(c.Request.Context(), req.fields(), c.GetString(phoneKey))
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task successfully saved to database", "_id": task.ID})
}

func (s *Server) getMyTasks(c *gin.Context) {
	list, err := s.tasks.ListMyTasks(c.Request.Context(), c.GetString(phoneKey))
	if err != nil {
		s.abort(c, err)
		return
	}
	if s.cfg.LegacyTaskList {
		c.JSON(http.StatusOK, list.Legacy())
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) getMyCreatedTasks(c *gin.Context) {
	tasks, err := s.tasks.ListMyCreatedTasks(c.Request.Context(), c.GetString(phoneKey))
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (s *Server) pushTask(c *gin.Context) {
	var req completionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortBinding(c, err)
		return
	}
	if err := s.completions.RecordCompletion(c.Request.Context(), c.GetString(phoneKey), req.report()); err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task information successfully saved to database"})
}

func (s *Server) cancelTask(c *gin.Context) {
	var req cancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortBinding(c, err)
		return
	}
	if err := s.completions.RecordCancellation(c.Request.Context(), c.GetString(phoneKey), req.report()); err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task information successfully saved to database"})
}

func (s *Server) completionPercentage(c *gin.Context) {
	key := c.Param("task_id")
	// Some clients escape the key twice.
	if unescaped, err := url.PathUnescape(key); err == nil {
		key = unescaped
	}
	pct, err := s.tasks.CompletionPercentage(c.Request.Context(), c.Param("group"), key)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, pct)
}

func (s *Server) deleteTask(c *gin.Context) {
	if err := s.tasks.DeleteTask(c.Request.Context(), c.Param("task_id"), c.GetString(phoneKey)); err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task successfully deleted"})
}

func (s *Server) updateTask(c *gin.Context) {
	var req taskEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortBinding(c, err)
		return
	}
	if err := s.tasks.UpdateTask(c.Request.Context(), req.TaskID, req.fields(), c.GetString(phoneKey)); err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task successfully updated"})
}
