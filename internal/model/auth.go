package model

type SignupRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	CountryCode     string `json:"country_code"`
	CaptchaResponse string `json:"captcha_response"`
}

type SignupResponse struct {
	User        User   `json:"user"`
	AccessToken string `json:"access_token"`
}

type LoginRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	Remember        bool   `json:"remember"`
	CaptchaResponse string `json:"captcha_response"`
}

type LoginResponse struct {
	User          User   `json:"user"`
	AccessToken   string `json:"access_token"`
	AdminToken    string `json:"admin_token,omitempty"`
	rememberToken string
}

func (r LoginResponse) RememberTokenInfo() string {
	return r.rememberToken
}

func (r *LoginResponse) SetRememberToken(token string) {
	r.rememberToken = token
}

type RememberMeRequest struct{}

type RememberMeResponse struct {
	User          User   `json:"user"`
	AccessToken   string `json:"access_token"`
	rememberToken string
}

func (r RememberMeResponse) RememberTokenInfo() string {
	return r.rememberToken
}

func (r *RememberMeResponse) SetRememberToken(token string) {
	r.rememberToken = token
}

type LogoutRequest struct{}

type LogoutResponse struct{}

func (r LogoutResponse) RememberTokenInfo() string {
	return ""
}

type GetMeRequest struct{}

type GetMeResponse struct {
	User User `json:"user"`
}
