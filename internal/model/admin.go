package model

const AdminSessionKey = "is_admin"

type AdminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AdminLoginResponse struct {
	Success     bool   `json:"success"`
	AccessToken string `json:"accessToken"`
}

func (r *AdminLoginResponse) SessionInfo() map[string]any {
	return map[string]any{AdminSessionKey: true}
}

type AdminLogoutRequest struct{}

type AdminLogoutResponse struct {
	Success bool `json:"success"`
}

func (r *AdminLogoutResponse) SessionInfo() map[string]any {
	return map[string]any{AdminSessionKey: false}
}

type AdminCheckRequest struct{}

type AdminCheckResponse struct {
	IsAuthenticated bool `json:"isAuthenticated"`
}

type AdminListEntriesRequest struct{}

type AdminListEntriesResponse struct {
	Entries []WaitlistEntry `json:"entries"`
}

type AdminExportEntriesRequest struct{}

type AdminExportEntriesResponse struct {
	Filename string
	Data     []byte
}

func (r *AdminExportEntriesResponse) ContentType() string {
	return "text/csv"
}

func (r *AdminExportEntriesResponse) RawBody() []byte {
	return r.Data
}

func (r *AdminExportEntriesResponse) AttachmentName() string {
	return r.Filename
}

type AdminDeleteEntryRequest struct {
	ID int64 `json:"id"`
}

type AdminDeleteEntryResponse struct {
	Success bool `json:"success"`
}

type SendPromotionalRequest struct {
	Message string `json:"message"`
}

type SendPromotionalResponse struct {
	Message      string   `json:"message"`
	FailedEmails []string `json:"failedEmails,omitempty"`
}

type SendLaunchAnnouncementRequest struct{}

type SendLaunchAnnouncementResponse struct {
	Message      string   `json:"message"`
	FailedEmails []string `json:"failedEmails,omitempty"`
}

// AccessToken is the claim carried by admin bearer tokens.
type AccessToken struct {
	Username string `json:"username"`
	Admin    bool   `json:"admin"`
}
