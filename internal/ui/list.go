package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/rollcall/internal/models"
)

var _ list.Item = enrollmentItem{}

// enrollmentItem wraps [models.Enrollment] to implement [list.Item].
type enrollmentItem struct {
	enrollment models.Enrollment
}

func (i enrollmentItem) FilterValue() string { return i.enrollment.DisplayName() }
func (i enrollmentItem) Title() string       { return i.enrollment.DisplayName() }
func (i enrollmentItem) Description() string {
	desc := fmt.Sprintf("%s • %s", i.enrollment.ContactEmail(), i.enrollment.Type)
	if i.enrollment.State != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.enrollment.State)
	}
	return desc
}
