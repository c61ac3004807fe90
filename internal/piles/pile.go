package piles

import (
	"time"

	"pilesort/internal/imaging"
)

// Pile is a non-empty group of related images and their representative date.
// Date is always the minimum member timestamp; it is derived, never set.
type Pile struct {
	Images []imaging.Image
	Date   time.Time
}

// Len returns the member count. Piles are never empty, so Len is at least 1.
func (p Pile) Len() int {
	return len(p.Images)
}

// Spread returns the difference between the newest and oldest member
// timestamps. Singletons have zero spread.
func (p Pile) Spread() time.Duration {
	if len(p.Images) < 2 {
		return 0
	}
	min, max := p.Images[0].Timestamp, p.Images[0].Timestamp
	for _, img := range p.Images[1:] {
		if img.Timestamp.Before(min) {
			min = img.Timestamp
		}
		if img.Timestamp.After(max) {
			max = img.Timestamp
		}
	}
	return max.Sub(min)
}

func newPile(images []imaging.Image) Pile {
	date := images[0].Timestamp
	for _, img := range images[1:] {
		if img.Timestamp.Before(date) {
			date = img.Timestamp
		}
	}
	return Pile{Images: images, Date: date}
}
