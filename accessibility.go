package ggsnap

import (
	"fmt"
	"image/color"
	"math"

	"github.com/gogpu/ggsnap/view"
)

// IssueCategory classifies an accessibility issue.
type IssueCategory string

// Issue categories.
const (
	CategoryTouchTarget  IssueCategory = "touch-target"
	CategoryContentLabel IssueCategory = "content-label"
	CategoryTextContrast IssueCategory = "text-contrast"
)

// NoID stands in for views that carry no id.
const NoID = "no-id"

// Thresholds.
const (
	MinTouchTargetDp = 48

	// MinContrast applies to normal text; large text (18sp and up) needs
	// MinContrastLarge.
	MinContrast      = 4.5
	MinContrastLarge = 3.0
	LargeTextSp      = 18
)

var helpURLs = map[IssueCategory]string{
	CategoryTouchTarget:  "https://support.google.com/accessibility/android/answer/7101858",
	CategoryContentLabel: "https://support.google.com/accessibility/android/answer/7158690",
	CategoryTextContrast: "https://support.google.com/accessibility/android/answer/7158390",
}

// AccessibilityIssue is one finding.
type AccessibilityIssue struct {
	Category IssueCategory
	ViewID   string
	Message  string
	HelpURL  string
}

func (i AccessibilityIssue) String() string {
	return fmt.Sprintf("%s [%s] %s (%s)", i.Category, i.ViewID, i.Message, i.HelpURL)
}

// CheckAccessibility inspects nodes laid out at density pixels per dp.
func CheckAccessibility(nodes []view.Node, density float64) []AccessibilityIssue {
	if density <= 0 {
		density = 1
	}
	var issues []AccessibilityIssue
	add := func(n view.Node, c IssueCategory, format string, args ...any) {
		id := n.ID
		if id == "" {
			id = NoID
		}
		issues = append(issues, AccessibilityIssue{
			Category: c,
			ViewID:   id,
			Message:  fmt.Sprintf(format, args...),
			HelpURL:  helpURLs[c],
		})
	}

	for _, n := range nodes {
		if n.Clickable {
			w := float64(n.Bounds.Dx()) / density
			h := float64(n.Bounds.Dy()) / density
			if w < MinTouchTargetDp || h < MinTouchTargetDp {
				add(n, CategoryTouchTarget,
					"touch target is %.0fx%.0fdp, should be at least %dx%ddp",
					w, h, MinTouchTargetDp, MinTouchTargetDp)
			}
			if n.Label == "" {
				add(n, CategoryContentLabel, "clickable element has no label")
			}
		}
		if n.Foreground != nil && n.Background != nil && n.Label != "" {
			want := MinContrast
			if n.TextSize >= LargeTextSp {
				want = MinContrastLarge
			}
			if r := ContrastRatio(n.Foreground, n.Background); r < want {
				add(n, CategoryTextContrast,
					"text contrast is %.2f:1, should be at least %.1f:1", r, want)
			}
		}
	}
	return issues
}

// ContrastRatio returns the WCAG contrast ratio of two colors, from 1 to 21.
func ContrastRatio(a, b color.Color) float64 {
	la, lb := luminance(a), luminance(b)
	if la < lb {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05)
}

// luminance is the WCAG relative luminance of c, alpha ignored.
func luminance(c color.Color) float64 {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	lin := func(v uint8) float64 {
		s := float64(v) / 255
		if s <= 0.03928 {
			return s / 12.92
		}
		return math.Pow((s+0.055)/1.055, 2.4)
	}
	return 0.2126*lin(n.R) + 0.7152*lin(n.G) + 0.0722*lin(n.B)
}
