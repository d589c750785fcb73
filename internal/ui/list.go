package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/desertthunder/texttube/internal/models"
	"github.com/desertthunder/texttube/internal/shared"
)

var _ list.DefaultItem = videoItem{}

// videoItem wraps [models.Video] to implement [list.DefaultItem].
type videoItem struct {
	video *models.Video
}

func (i videoItem) FilterValue() string { return i.video.Title() + " " + i.video.ChannelName() }
func (i videoItem) Title() string       { return i.video.Title() }
func (i videoItem) Description() string {
	return fmt.Sprintf("%s • %s • %s • %s",
		i.video.ChannelName(),
		shared.FormatViews(i.video.ViewCount()),
		shared.DisplayDuration(i.video.Duration()),
		shared.FormatDate(i.video.CreatedAt()),
	)
}

func videoItems(videos []*models.Video) []list.Item {
	items := make([]list.Item, len(videos))
	for i, v := range videos {
		items[i] = videoItem{video: v}
	}
	return items
}
