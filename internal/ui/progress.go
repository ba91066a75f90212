package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

const clearLine = "\033[2K\r"

// ProgressBar is a single-line console progress indicator for batch
// scans. Safe for concurrent workers.
type ProgressBar struct {
	total       int
	current     int
	flagged     int
	startTime   time.Time
	description string
	mu          sync.Mutex
	width       int
}

func NewProgressBar(total int, description string) *ProgressBar {
	return &ProgressBar{
		total:       total,
		startTime:   time.Now(),
		description: description,
		width:       40,
	}
}

func (pb *ProgressBar) Increment(flagged bool) {
	pb.mu.Lock()
	defer pb.mu.Unlock()
	pb.current++
	if flagged {
		pb.flagged++
	}
	pb.render()
}

// PrintMsg prints msg above the bar and redraws it.
func (pb *ProgressBar) PrintMsg(msg string) {
	pb.mu.Lock()
	defer pb.mu.Unlock()
	fmt.Print(clearLine)
	fmt.Println(msg)
	pb.render()
}

func (pb *ProgressBar) Finish() {
	pb.mu.Lock()
	defer pb.mu.Unlock()
	pb.current = pb.total
	fmt.Print(clearLine)
	pb.render()
	fmt.Println()
}

func (pb *ProgressBar) render() {
	if pb.total <= 0 {
		return
	}
	percent := float64(pb.current) / float64(pb.total)
	if percent > 1.0 {
		percent = 1.0
	}

	filled := int(float64(pb.width) * percent)
	bar := strings.Repeat("=", filled)
	if filled < pb.width {
		bar += ">" + strings.Repeat(".", pb.width-filled-1)
	}

	elapsed := time.Since(pb.startTime)
	eta := "--"
	if pb.current > 0 && pb.current < pb.total {
		remaining := time.Duration(float64(elapsed) / float64(pb.current) * float64(pb.total-pb.current))
		eta = remaining.Truncate(time.Second).String()
	}

	fmt.Printf("\r%s [%s] %d/%d flagged=%d eta=%s",
		pb.description, bar, pb.current, pb.total, pb.flagged, eta)
}
