package enroll

import (
	"fmt"
	"sync"
)

type DownloadState string

const (
	DownloadInitial     DownloadState = "initial"
	DownloadDownloading DownloadState = "downloading"
	DownloadDownloaded  DownloadState = "downloaded"
)

// download is the course-material machine on the confirmation view:
// Initial -> Downloading -> Downloaded. Downloaded is terminal and
// re-entry is a no-op, so the timer can never be restarted.
type download struct {
	mu     sync.Mutex
	state  DownloadState
	course string
	notice string
}

func newDownload(course string) *download {
	return &download{
		state:  DownloadInitial,
		course: course,
	}
}

// start wins only from Initial.
func (d *download) start() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state != DownloadInitial {
		return false
	}
	d.state = DownloadDownloading
	return true
}

func (d *download) finish() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state != DownloadDownloading {
		return
	}
	d.state = DownloadDownloaded
	d.notice = fmt.Sprintf("Course material for %q is ready.", d.course)
}

// snapshot reports the state plus the completion notice. The notice is
// produced once: the first read after completion consumes it.
func (d *download) snapshot() (DownloadState, string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	notice := d.notice
	d.notice = ""
	return d.state, notice
}
