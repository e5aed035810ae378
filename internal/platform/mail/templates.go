package mail

const verificationBody = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Email verification</h2>
  <p>Hi {{.Username}},</p>
  <p>Enter this code to verify your email address:</p>
  <p style="font-size: 28px; font-weight: bold; letter-spacing: 6px;">{{.Code}}</p>
  <p>The code expires in 10 minutes. If you did not request it, you can ignore this message.</p>
</body>
</html>`

const resetBody = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Password reset</h2>
  <p>Hi {{.Username}},</p>
  <p>Click the link below to choose a new password:</p>
  <p><a href="{{.Link}}">{{.Link}}</a></p>
  <p>The link expires in 1 hour and works exactly once. If you did not request a reset, your password is unchanged.</p>
</body>
</html>`

const welcomeBody = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Welcome, {{.Username}}!</h2>
  <p>Your account has been created. Verify your email address from your profile to unlock every feature.</p>
</body>
</html>`
