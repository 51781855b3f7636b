package auth

import "html/template"

// Templates are package constants rather than files on disk: this service
// renders three small pages and has no asset pipeline.

var signInTmpl = template.Must(template.New("sign-in").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Circle Up - Login</title>
    <script src="https://cdn.tailwindcss.com"></script>
</head>
<body>
    <div class="min-h-full flex items-center justify-center py-12 px-4 sm:px-6 lg:px-8">
        <div class="max-w-md w-full space-y-8">
            <div class="mt-16">
                <h2 class="mt-6 text-center text-3xl font-extrabold text-gray-900">Sign In to Your Account</h2>
                <p class="mt-2 text-center text-sm text-gray-600">
                    Or
                    <a href="/" class="font-medium text-indigo-600 hover:text-indigo-500"> browse around for now. </a>
                </p>
            </div>
            {{if .Notice}}<p class="text-center text-sm text-red-600">{{.Notice}}</p>{{end}}
            <form class="mt-8 space-y-6" method="POST" action="/sign-in">
                <input type="hidden" name="csrf_token" value="{{.CSRFToken}}">
                <div class="my-8 space-y-6">
                    <div class="flex flex-col">
                        <input id="username" name="username" autocomplete="off"
                            class="appearance-none rounded-md w-full px-3 py-2 sm:text-sm {{if .UsernameError}}bg-red-50 border-red-500 text-red-900{{else}}border-gray-300 text-gray-900{{end}}"
                            value="{{.Username}}" placeholder="Username" />
                        <span class="mt-2 text-sm text-red-600">{{.UsernameError}}</span>
                    </div>
                    <div class="flex flex-col">
                        <input id="password" name="password" type="password"
                            class="appearance-none rounded-md w-full px-3 py-2 sm:text-sm {{if .PasswordError}}bg-red-50 border-red-500 text-red-900{{else}}border-gray-300 text-gray-900{{end}}"
                            placeholder="Password" />
                        <span class="mt-2 text-sm text-red-600">{{.PasswordError}}</span>
                    </div>
                    <span class="mt-2 text-sm text-red-600">{{.LoginError}}</span>
                </div>
                <div class="flex items-center justify-between">
                    <div class="flex items-center">
                        <input id="remember-me" name="remember-me" type="checkbox"
                            class="h-4 w-4 text-indigo-600 border-gray-300 rounded">
                        <label for="remember-me" class="ml-2 block text-sm text-gray-900"> Remember Me </label>
                    </div>
                    <div class="text-sm">
                        <a href="#" class="font-medium text-indigo-600 hover:text-indigo-500"> Forgot your password? </a>
                    </div>
                </div>
                <button type="submit"
                    class="group relative w-full flex justify-center py-2 px-4 border border-transparent text-sm font-medium rounded-md text-white bg-indigo-600 hover:bg-indigo-700">
                    Sign In
                </button>
            </form>
            <p class="mt-2 text-right text-sm text-gray-600">
                Don't have an account?
                <a href="/sign-up" class="font-medium text-indigo-600 hover:text-indigo-500"> Sign Up. </a>
            </p>
        </div>
    </div>
</body>
</html>
`))

// signInView is everything the sign-in template needs for one render.
type signInView struct {
	CSRFToken   string
	Username    string
	FieldErrors FieldErrors
	LoginError  string
	Notice      string
}

func (v signInView) UsernameError() string { return v.FieldErrors["username"] }

func (v signInView) PasswordError() string { return v.FieldErrors["password"] }

var homeTmpl = template.Must(template.New("home").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Circle Up</title>
    <script src="https://cdn.tailwindcss.com"></script>
</head>
<body>
    <div class="min-h-full flex items-center justify-center py-12">
        <div class="max-w-md w-full space-y-4 text-center">
            <h1 class="text-3xl font-extrabold text-gray-900">Circle Up</h1>
            {{if .Username}}
            <p class="text-gray-600">Signed in as <strong>{{.Username}}</strong>.</p>
            <p><a href="/account" class="text-indigo-600 hover:text-indigo-500">Your account</a></p>
            <form method="POST" action="/sign-out">
                <button type="submit" class="text-sm text-indigo-600 hover:text-indigo-500">Sign out</button>
            </form>
            {{else}}
            <p class="text-gray-600"><a href="/sign-in" class="text-indigo-600 hover:text-indigo-500">Sign in</a> to your account.</p>
            {{end}}
        </div>
    </div>
</body>
</html>
`))

type homeView struct {
	Username string
}

var accountTmpl = template.Must(template.New("account").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Circle Up - Account</title>
    <script src="https://cdn.tailwindcss.com"></script>
</head>
<body>
    <div class="min-h-full flex items-center justify-center py-12">
        <div class="max-w-md w-full space-y-4 text-center">
            <h1 class="text-3xl font-extrabold text-gray-900">Your Account</h1>
            <p class="text-gray-600">Username: <strong>{{.Username}}</strong></p>
            <p class="text-gray-600 text-sm">Account ID: {{.AccountID}}</p>
            <p><a href="/" class="text-indigo-600 hover:text-indigo-500">Back</a></p>
        </div>
    </div>
</body>
</html>
`))

type accountView struct {
	Username  string
	AccountID string
}
