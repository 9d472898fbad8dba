package notification

import "math/rand"

// StandardMessages is the rotating body pool used when a reminder does
// not carry a custom message. The strings are product-visible; do not
// edit them.
var StandardMessages = []string{
	"It’s giving productive. Do the thing. ✨",
	"Manifesting this habit for you.",
	"Don't let the capitalism win. Take care of yourself.",
	"Vibe check: You haven't done this yet.",
	"Be the main character of your life today.",
	"Touch grass? Maybe later. Do this first.",
	"Consistency is your love language.",
	"POV: You just crushed your habit.",
	"Sending positive energy (and a reminder).",
	"Not to be toxic, but do you want to keep that streak?",
}

// RandomMessage picks a uniform random entry from the standard pool.
// The pick happens at schedule time, so a trigger's body is static
// until the habit is rescheduled.
func RandomMessage() string {
	return StandardMessages[rand.Intn(len(StandardMessages))]
}
