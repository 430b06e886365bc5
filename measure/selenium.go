package measure

import (
	"context"
	"fmt"
	"time"

	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
)

// Selenium measures thumbnails through a chromedriver it starts per measurement
type Selenium struct {
	DriverPath string
	Ports      *PortManager
	PageLoad   time.Duration
}

func NewSelenium(driverPath string) *Selenium {
	return &Selenium{
		DriverPath: driverPath,
		Ports:      NewPortManager(4444, 16),
		PageLoad:   60 * time.Second,
	}
}

func (s *Selenium) ThumbWidth(ctx context.Context, pageURL string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	port, err := s.Ports.Acquire()
	if err != nil {
		return 0, fmt.Errorf("port error: %w", err)
	}
	defer s.Ports.Release(port)

	service, err := selenium.NewChromeDriverService(s.DriverPath, port)
	if err != nil {
		return 0, fmt.Errorf("error starting Chrome driver service: %w", err)
	}
	defer service.Stop()

	caps := selenium.Capabilities{"browserName": "chrome"}
	caps.AddChrome(chrome.Capabilities{
		Args: []string{
			"--headless=new",
			"--no-sandbox",
			"--disable-dev-shm-usage",
			"--disable-gpu",
			"--window-size=1280,800",
			"--force-device-scale-factor=1",
		},
	})

	driver, err := selenium.NewRemote(caps, fmt.Sprintf("http://localhost:%d/wd/hub", port))
	if err != nil {
		return 0, fmt.Errorf("error creating WebDriver: %w", err)
	}
	defer driver.Quit()

	if err := driver.SetPageLoadTimeout(s.PageLoad); err != nil {
		return 0, fmt.Errorf("page load timeout: %w", err)
	}
	if err := driver.Get(pageURL); err != nil {
		return 0, fmt.Errorf("navigation error: %w", err)
	}

	res, err := driver.ExecuteScript("return "+thumbWidthScript+";", nil)
	if err != nil {
		return 0, fmt.Errorf("measure script error: %w", err)
	}
	w, ok := res.(float64)
	if !ok {
		return 0, fmt.Errorf("unexpected measure result %T", res)
	}
	return w, nil
}
