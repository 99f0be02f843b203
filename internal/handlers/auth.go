package handlers

import (
	"net/http"
	"strings"

	"eventpass/internal/models"
	"eventpass/internal/navigation"
)

// LoginViewModel holds data for the login screen.
type LoginViewModel struct {
	Alert *Alert
	Email string
}

// LoginForm renders the login screen.
func (h *Handlers) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "login.html", LoginViewModel{})
}

// Login handles the login form submission.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, r, "login.html", LoginViewModel{Alert: errorAlert("Invalid form submission")})
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	if email == "" || password == "" {
		h.render(w, r, "login.html", LoginViewModel{Alert: errorAlert("Please fill in all fields"), Email: email})
		return
	}

	if _, err := h.api.Login(r.Context(), email, password); err != nil {
		h.log.Warn().Err(err).Msg("login failed")
		h.render(w, r, "login.html", LoginViewModel{Alert: errorAlert("Invalid email or password"), Email: email})
		return
	}

	h.navigate(w, r, navigation.EventFeed)
}

// SignupViewModel holds data for the signup screen.
type SignupViewModel struct {
	Alert    *Alert
	Username string
	Email    string
}

// SignupForm renders the signup screen.
func (h *Handlers) SignupForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "signup.html", SignupViewModel{})
}

// Signup handles the signup form submission.
func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, r, "signup.html", SignupViewModel{Alert: errorAlert("Invalid form submission")})
		return
	}

	vm := SignupViewModel{
		Username: strings.TrimSpace(r.FormValue("username")),
		Email:    strings.TrimSpace(r.FormValue("email")),
	}
	password := r.FormValue("password")
	confirm := r.FormValue("confirm_password")

	switch {
	case vm.Username == "" || vm.Email == "" || password == "" || confirm == "":
		vm.Alert = errorAlert("Please fill in all fields")
	case password != confirm:
		vm.Alert = errorAlert("Passwords do not match")
	case len(password) < models.MinPasswordLength:
		vm.Alert = errorAlert("Password must be at least 6 characters long")
	}
	if vm.Alert != nil {
		h.render(w, r, "signup.html", vm)
		return
	}

	if _, err := h.api.Signup(r.Context(), vm.Username, vm.Email, password); err != nil {
		h.log.Warn().Err(err).Msg("signup failed")
		vm.Alert = errorAlert("Failed to create account. Please try again.")
		h.render(w, r, "signup.html", vm)
		return
	}

	h.navigate(w, r, navigation.EventFeed)
}

// SimpleSignupViewModel holds data for the minimal registration screen.
type SimpleSignupViewModel struct {
	Alert     *Alert
	FirstName string
	LastName  string
	Phone     string
}

// SimpleSignupForm renders the minimal registration screen.
func (h *Handlers) SimpleSignupForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "register.html", SimpleSignupViewModel{})
}

// SimpleSignup handles the minimal registration form.
func (h *Handlers) SimpleSignup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, r, "register.html", SimpleSignupViewModel{Alert: errorAlert("Invalid form submission")})
		return
	}

	vm := SimpleSignupViewModel{
		FirstName: strings.TrimSpace(r.FormValue("first_name")),
		LastName:  strings.TrimSpace(r.FormValue("last_name")),
		Phone:     strings.TrimSpace(r.FormValue("phone")),
	}
	if vm.FirstName == "" || vm.LastName == "" || vm.Phone == "" {
		vm.Alert = errorAlert("Please fill in all fields")
		h.render(w, r, "register.html", vm)
		return
	}

	if err := h.api.SimpleSignup(r.Context(), vm.FirstName, vm.LastName, vm.Phone); err != nil {
		h.log.Warn().Err(err).Msg("simple signup failed")
		vm.Alert = errorAlert("Failed to submit signup")
		h.render(w, r, "register.html", vm)
		return
	}

	h.render(w, r, "register.html", SimpleSignupViewModel{Alert: successAlert("Thank you for signing up!")})
}

// LogoutConfirm asks the user to confirm logging out.
func (h *Handlers) LogoutConfirm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "logout.html", nil)
}

// Logout clears the stored token and returns to the login screen.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	h.api.Logout(r.Context())
	h.navigate(w, r, navigation.Login)
}
