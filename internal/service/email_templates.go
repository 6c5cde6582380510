package service

import "fmt"

func welcomeEmailTemplate(name, dashboardURL, appName string) (string, string) {
	subject := fmt.Sprintf("Welcome to %s!", appName)
	body := fmt.Sprintf(`Hi %s,

Your profile is set up. Upload your notes and papers to earn points and climb the leaderboard.

Get started: %s

Best,
The %s Team`, name, dashboardURL, appName)

	return subject, body
}

func reportNotificationTemplate(target, targetID, reason, description, reportsURL, appName string) (string, string) {
	subject := fmt.Sprintf("[%s] New report: %s", appName, reason)
	if description == "" {
		description = "(none)"
	}
	body := fmt.Sprintf(`A %s was reported.

ID: %s
Reason: %s
Details: %s

Review pending reports: %s`, target, targetID, reason, description, reportsURL)

	return subject, body
}
