package feed

import "strings"

// curatedProfiles covers the mega-caps; everything else gets the
// generic paragraph so the panel stays readable across tickers.
var curatedProfiles = map[string]string{
	"AAPL": "Apple designs iPhone, Mac and services like the App Store, Music and iCloud. " +
		"It drives retention with tight hardware-software integration and is rolling out " +
		"on-device AI to deepen engagement.",
	"MSFT": "Microsoft runs Windows, Office and Azure. Cloud subscriptions are the main " +
		"growth engine, and Copilot brings AI into productivity and developer tools.",
	"NVDA": "NVIDIA builds GPUs and full AI platforms used to train and run large models. " +
		"Its CUDA software ecosystem and data-center chips are a major competitive moat.",
	"AMZN": "Amazon combines a massive logistics network with the high-margin AWS cloud " +
		"business. Ads and subscriptions like Prime add recurring, sticky revenue.",
	"META": "Meta operates Facebook, Instagram and WhatsApp. Ads remain core, supported " +
		"by AI-driven feed ranking, while messaging continues to deepen user engagement.",
	"GOOGL": "Alphabet spans Search, YouTube, Android and Google Cloud. Search and ads " +
		"fund heavy investment into cloud and AI products across the portfolio.",
}

const genericProfile = "U.S. listed company. A detailed profile is not available, but this placeholder " +
	"keeps the panel readable and consistent across tickers."

func profileFor(symbol string) string {
	if p, ok := curatedProfiles[strings.ToUpper(symbol)]; ok {
		return p
	}
	return genericProfile
}
