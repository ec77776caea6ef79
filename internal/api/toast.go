package api

import "fmt"

// Toast kinds.
const (
	ToastSuccess = "success"
	ToastError   = "error"
	ToastInfo    = "info"
)

// Toast messages shown by the client.
const (
	MsgLoginSuccess    = "Login successful!"
	MsgRegisterSuccess = "Registration successful!"
	MsgLoggedOut       = "Logged out successfully"
	MsgNoteNotFound    = "Note not found"
	MsgUploadSuccess   = "Note uploaded successfully!"
	MsgCommentAdded    = "Comment added successfully!"
	MsgReplyAdded      = "Reply added successfully!"
	MsgLikeAdded       = "Added to likes"
	MsgLikeRemoved     = "Removed from likes"
)

// Toast is a transient notification attached to a response.
type Toast struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func successToast(msg string) *Toast { return &Toast{Kind: ToastSuccess, Message: msg} }

func errorToast(msg string) *Toast { return &Toast{Kind: ToastError, Message: msg} }

func downloadingToast(title string) *Toast {
	return &Toast{Kind: ToastInfo, Message: fmt.Sprintf("Downloading: %s", title)}
}

func likeToast(liked bool) *Toast {
	if liked {
		return successToast(MsgLikeAdded)
	}
	return successToast(MsgLikeRemoved)
}
