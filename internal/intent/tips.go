package intent

import "math/rand"

var healthTips = []string{
	"Drink at least 8 glasses of water daily for optimal health.",
	"Aim for 7-9 hours of quality sleep each night.",
	"Include at least 30 minutes of physical activity in your day.",
	"Eat a rainbow of fruits and vegetables for diverse nutrients.",
	"Practice stress management techniques like deep breathing.",
	"Wash your hands regularly to prevent infections.",
	"Take breaks from screens to rest your eyes.",
	"Maintain good posture, especially when sitting long hours.",
}

// HealthTip picks a tip using rng, or the package source when rng is nil
func HealthTip(rng *rand.Rand) string {
	if rng == nil {
		return healthTips[rand.Intn(len(healthTips))]
	}
	return healthTips[rng.Intn(len(healthTips))]
}
