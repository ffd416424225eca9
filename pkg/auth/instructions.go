package auth

import (
	"fmt"
	"strings"
)

// ShowTokenGuide displays step-by-step instructions for obtaining an API token
func ShowTokenGuide() {
	fmt.Println(strings.Repeat("=", 70))
	fmt.Println("CLICKUP API TOKEN GUIDE")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Println()

	fmt.Println("This tool needs a personal API token to talk to ClickUp.")
	fmt.Println()

	fmt.Println("STEP 1: Open ClickUp in your browser and log in")
	fmt.Println("   - Go to https://app.clickup.com")
	fmt.Println()

	fmt.Println("STEP 2: Open your settings")
	fmt.Println("   - Click your avatar in the bottom-left corner")
	fmt.Println("   - Choose 'Settings', then 'Apps' in the sidebar")
	fmt.Println()

	fmt.Println("STEP 3: Generate the token")
	fmt.Println("   - Under 'API Token', click 'Generate' (or 'Regenerate')")
	fmt.Println("   - Copy the value; personal tokens start with pk_")
	fmt.Println()

	fmt.Println("TIPS:")
	fmt.Println("   - Store it with: clickup auth set")
	fmt.Println("   - Or export CLICKUP_API_TOKEN for one-off use")
	fmt.Println("   - The token grants full access to your workspaces; never share it")
	fmt.Println()
	fmt.Println(strings.Repeat("=", 70))
	fmt.Println()
}

// ShowQuickTokenGuide shows a condensed version for experienced users
func ShowQuickTokenGuide() {
	fmt.Println("\nQuick guide: app.clickup.com -> avatar -> Settings -> Apps -> API Token -> Generate")
	fmt.Println("   Then run: clickup auth set")
}
