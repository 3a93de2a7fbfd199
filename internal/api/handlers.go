package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/redhat-data-and-ai/accountsync/pkg/accounts"
	"github.com/redhat-data-and-ai/accountsync/pkg/common/structs"
)

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) listAccounts(c *gin.Context) {
	all, err := s.manager.All(c.Request.Context())
	if err != nil {
		s.handleError(c, "Failed to list accounts", err)
		return
	}
	c.JSON(http.StatusOK, AccountList{Count: len(all), Accounts: all})
}

func (s *Server) loadAccounts(c *gin.Context) {
	added, err := s.manager.LoadAll(c.Request.Context())
	if err != nil {
		s.handleCountError(c, "Failed to load accounts", added, err)
		return
	}
	c.JSON(http.StatusOK, CountResponse{Count: added})
}

func (s *Server) reloadAccounts(c *gin.Context) {
	added, err := s.manager.ReloadAll(c.Request.Context())
	if err != nil {
		s.handleCountError(c, "Failed to reload accounts", added, err)
		return
	}
	c.JSON(http.StatusOK, CountResponse{Count: added})
}

func (s *Server) clearAccounts(c *gin.Context) {
	if err := s.manager.ClearAll(c.Request.Context()); err != nil {
		s.handleError(c, "Failed to clear accounts", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) getAccount(c *gin.Context) {
	account, err := s.manager.Load(c.Request.Context(), s.fullAddress(c.Param("mail")))
	if err != nil {
		s.handleError(c, "Failed to load account", err)
		return
	}
	c.JSON(http.StatusOK, account)
}

func (s *Server) addAccount(c *gin.Context) {
	var req AccountCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	account := req.toAccount()
	if err := s.manager.Add(c.Request.Context(), account, req.Password); err != nil {
		s.handleError(c, "Failed to add account", err)
		return
	}

	account.Mail = account.MailAddress(s.manager.Domain())
	c.JSON(http.StatusCreated, account)
}

func (s *Server) deleteAccount(c *gin.Context) {
	if err := s.manager.Delete(c.Request.Context(), s.fullAddress(c.Param("mail"))); err != nil {
		s.handleError(c, "Failed to delete account", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) changePassword(c *gin.Context) {
	var req PasswordChange
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	mail := s.fullAddress(c.Param("mail"))
	account := &structs.Account{UID: structs.LocalPart(mail), Mail: mail}
	if err := s.manager.ChangePassword(c.Request.Context(), account, req.Password); err != nil {
		s.handleError(c, "Failed to change password", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) getSnapshot(c *gin.Context) {
	snapshot, err := s.manager.ToSnapshot(c.Request.Context())
	if err != nil {
		s.handleError(c, "Failed to build snapshot", err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (s *Server) putSnapshot(c *gin.Context) {
	restored, err := s.manager.FromSnapshot(c.Request.Context(), c.Request.Body)
	if err != nil {
		s.handleCountError(c, "Failed to restore snapshot", restored, err)
		return
	}
	c.JSON(http.StatusOK, CountResponse{Count: restored})
}

func (s *Server) fullAddress(mail string) string {
	return structs.FullAddress(mail, s.manager.Domain())
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: "Invalid request format",
		Error:   err.Error(),
	})
}

func (s *Server) handleError(c *gin.Context, message string, err error) {
	status := statusFor(err)
	c.JSON(status, ErrorResponse{
		Code:    status,
		Message: message,
		Error:   err.Error(),
		Kind:    string(accounts.KindOf(err)),
		Partial: accounts.IsPartial(err),
	})
}

func (s *Server) handleCountError(c *gin.Context, message string, count int, err error) {
	status := statusFor(err)
	c.JSON(status, ErrorResponse{
		Code:    status,
		Message: message,
		Error:   err.Error(),
		Kind:    string(accounts.KindOf(err)),
		Partial: accounts.IsPartial(err),
		Count:   &count,
	})
}

func statusFor(err error) int {
	switch accounts.KindOf(err) {
	case accounts.KindNotFound:
		return http.StatusNotFound
	case accounts.KindInvalid:
		return http.StatusBadRequest
	case accounts.KindRemote:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
