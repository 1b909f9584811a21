package protocol

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/aretw0/gforms/pkg/domain"
	"github.com/aretw0/gforms/pkg/ports"
)

const signinHost = "accounts.google.com"

// CheckResponse maps a response of the form server to the document access
// errors, or to ErrBadStatus for any other unexpected status.
func CheckResponse(resp *ports.Response) error {
	if err := checkAccess(resp); err != nil {
		return err
	}
	if resp.Status != http.StatusOK {
		return &domain.ProtocolError{URL: resp.URL, Status: resp.Status, Err: domain.ErrBadStatus}
	}
	return nil
}

func checkAccess(resp *ports.Response) error {
	switch resp.Status {
	case http.StatusNotFound, http.StatusGone:
		return domain.NewAccessError(resp.URL, domain.ErrNoSuchForm)
	case http.StatusUnauthorized:
		return domain.NewAccessError(resp.URL, domain.ErrSigninRequired)
	}
	if u, err := url.Parse(resp.URL); err == nil && u.Host == signinHost {
		return domain.NewAccessError(resp.URL, domain.ErrSigninRequired)
	}
	switch {
	case strings.HasSuffix(resp.URL, "closedform"):
		return domain.NewAccessError(resp.URL, domain.ErrClosedForm)
	case strings.HasSuffix(resp.URL, "editingdisabled"):
		return domain.NewAccessError(resp.URL, domain.ErrEditingDisabled)
	}
	return nil
}
