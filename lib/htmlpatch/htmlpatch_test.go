package htmlpatch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const yandexPage = `<html>
<head>
    <!-- Yandex Games SDK -->
    <script src="sdk.js"></script>
</head>
<body>
<script>
        function InitPlayer(ysdk) {
            return new Promise((resolve) => { resolve(); })
        }
        async function Boot() {
            ysdk = await YaGames.init();
            player = await ysdk.getPlayer();
            if (ysdk == null) return;
            if (!ysdk) return;
        }
        InstallBlurFocusBlocker();
        InitYSDK();
</script>
</body>
</html>`

func TestStripYandexSDK(t *testing.T) {
	out, removed := StripYandexSDK(yandexPage)
	require.Positive(t, removed)
	require.Equal(t, len(yandexPage)-len(out), removed)

	require.NotContains(t, out, `<script src="sdk.js"></script>`)
	require.NotContains(t, out, "YaGames.init")
	require.NotContains(t, out, "InitYSDK();")
	require.Contains(t, out, "InstallBlurFocusBlocker();\n            StartUnityInstance_IfUnloaded();")
	require.Contains(t, out, `function InitPlayer() { return Promise.resolve("no data"); }`)
	require.Contains(t, out, "// ysdk removed")
	require.Contains(t, out, "if (true) // Yandex SDK removed return;")
}

func TestStripYandexSDKUntouched(t *testing.T) {
	page := "<html><body><canvas></canvas></body></html>"
	out, removed := StripYandexSDK(page)
	require.Equal(t, page, out)
	require.Zero(t, removed)
}

func TestWrapper(t *testing.T) {
	out, err := Wrapper(`Tom & Jerry <Run>`, "https://games.crazygames.com/en_US/tom-jerry/index.html?v=1&x=2")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	require.Contains(t, out, "<title>Tom &amp; Jerry &lt;Run&gt;</title>")
	require.Contains(t, out, `src="https://games.crazygames.com/en_US/tom-jerry/index.html?v=1&amp;x=2"`)

	out, err = Wrapper("x", "javascript:alert(1)")
	require.NoError(t, err)
	require.NotContains(t, out, "javascript:alert")
}
