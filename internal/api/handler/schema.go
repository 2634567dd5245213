package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type registerRequest struct {
	Name     string `json:"name"     validate:"required,max=255"`
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=1,maxbytes=72"`
}

// loginRequest is the OAuth2 password form.
type loginRequest struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// --- Books ---

type bookRequest struct {
	Title           string `json:"title"            validate:"required,max=255"`
	Author          string `json:"author"           validate:"required,max=255"`
	PublishedYear   *int   `json:"published_year"   validate:"omitempty,gte=0,lte=2100"`
	AvailableCopies *int   `json:"available_copies" validate:"omitempty,gte=0"`
}

type bookResponse struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	PublishedYear   *int   `json:"published_year"`
	AvailableCopies int    `json:"available_copies"`
	IsAvailable     bool   `json:"is_available"`
}

// --- Members ---

type memberRequest struct {
	Name       string     `json:"name"        validate:"required,max=255"`
	Email      string     `json:"email"       validate:"required,email,max=255"`
	JoinedDate *time.Time `json:"joined_date"`
}

type memberResponse struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	JoinedDate time.Time `json:"joined_date"`
	Role       string    `json:"role"`
}

// --- Borrow ---

type borrowRequest struct {
	MemberID int64 `json:"member_id" validate:"required,gt=0"`
	BookID   int64 `json:"book_id"   validate:"required,gt=0"`
}

type borrowResponse struct {
	Message    string    `json:"message"`
	Member     string    `json:"member"`
	Book       string    `json:"book"`
	BorrowDate time.Time `json:"borrow_date"`
}
