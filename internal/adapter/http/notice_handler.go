package http

import (
	"net/http"

	"github.com/YelzhanWeb/storefront/internal/interfaces"
)

type NoticeHandler struct {
	board interfaces.NoticeBoard
}

func NewNoticeHandler(board interfaces.NoticeBoard) *NoticeHandler {
	return &NoticeHandler{board: board}
}

// GetNotices lists banners that have not expired yet
func (h *NoticeHandler) GetNotices(w http.ResponseWriter, r *http.Request) {
	notices := h.board.Live()
	if notices == nil {
		notices = []interfaces.Notice{}
	}
	respondJSON(w, http.StatusOK, notices)
}
