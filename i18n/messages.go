package i18n

const (
	KeyOK                 = "ok"
	KeyInternalError      = "internal_error"
	KeyValidationFailed   = "validation_failed"
	KeyUnauthorized       = "unauthorized"
	KeyInvalidToken       = "invalid_token"
	KeyForbidden          = "forbidden"
	KeyNotFound           = "not_found"
	KeyConflict           = "conflict"
	KeyInvalidCredentials = "invalid_credentials"
	KeyEmailTaken         = "email_taken"
	KeyGoogleDisabled     = "google_disabled"
	KeyGoogleInvalid      = "google_invalid_token"
	KeyRegistered         = "registered"
	KeyLoggedIn           = "logged_in"
	KeyLoggedOut          = "logged_out"
	KeyUserNotFound       = "user_not_found"
	KeyProductNotFound    = "product_not_found"
	KeyVariantNotFound    = "variant_not_found"
	KeyCategoryNotFound   = "category_not_found"
	KeyProductInactive    = "product_inactive"
	KeyInsufficientStock  = "insufficient_stock"
	KeyInvalidQuantity    = "invalid_quantity"
	KeyCartItemNotFound   = "cart_item_not_found"
	KeyCartEmpty          = "cart_empty"
	KeyCartUpdated        = "cart_updated"
	KeyCartCleared        = "cart_cleared"
	KeyEmailRequired      = "email_required"
	KeyOrderNotFound      = "order_not_found"
	KeyOrderCreated       = "order_created"
	KeyOrderFinalStatus   = "order_final_status"
	KeyOrderStatusUpdated = "order_status_updated"
	KeyOrderNumberTaken   = "order_number_taken"
	KeyStatusChanged      = "status_changed_concurrently"
	KeyInvalidStatus      = "invalid_status"
	KeyReviewExists       = "review_exists"
	KeyReviewCreated      = "review_created"
	KeyProductCreated     = "product_created"
	KeyProductUpdated     = "product_updated"
	KeyProductDeleted     = "product_deleted"
	KeyProductConflict    = "product_conflict"
	KeyEmptyPatch         = "empty_patch"
	KeyUnknownField       = "unknown_field"
	KeyImageUploaded      = "image_uploaded"
	KeyInvalidImage       = "invalid_image"
	KeyRoleUpdated        = "role_updated"
	KeyInvalidID          = "invalid_id"
)

var english = map[string]string{
	KeyOK:                 "OK",
	KeyInternalError:      "Something went wrong. Please try again later.",
	KeyValidationFailed:   "Some fields are missing or invalid.",
	KeyUnauthorized:       "Please sign in to continue.",
	KeyInvalidToken:       "Your sign-in has expired or is invalid.",
	KeyForbidden:          "You do not have permission to do that.",
	KeyNotFound:           "The requested resource was not found.",
	KeyConflict:           "The request conflicts with the current state.",
	KeyInvalidCredentials: "Invalid email or password.",
	KeyEmailTaken:         "An account with this email already exists.",
	KeyGoogleDisabled:     "Google sign-in is not available.",
	KeyGoogleInvalid:      "Google sign-in could not be verified.",
	KeyRegistered:         "Account created.",
	KeyLoggedIn:           "Signed in.",
	KeyLoggedOut:          "Signed out.",
	KeyUserNotFound:       "User not found.",
	KeyProductNotFound:    "Product not found.",
	KeyVariantNotFound:    "That option is not available for this product.",
	KeyCategoryNotFound:   "Category not found.",
	KeyProductInactive:    "This product is no longer available.",
	KeyInsufficientStock:  "Not enough stock for the requested quantity.",
	KeyInvalidQuantity:    "Quantity must be between 0 and 99.",
	KeyCartItemNotFound:   "That item is not in your cart.",
	KeyCartEmpty:          "Your cart is empty.",
	KeyCartUpdated:        "Cart updated.",
	KeyCartCleared:        "Cart cleared.",
	KeyEmailRequired:      "An email address is required for guest checkout.",
	KeyOrderNotFound:      "Order not found.",
	KeyOrderCreated:       "Thank you! Your order has been placed.",
	KeyOrderFinalStatus:   "This order can no longer change status.",
	KeyOrderStatusUpdated: "Order status updated.",
	KeyOrderNumberTaken:   "Please try placing your order again.",
	KeyStatusChanged:      "The order status changed meanwhile. Please reload.",
	KeyInvalidStatus:      "Unknown order status.",
	KeyReviewExists:       "You have already reviewed this product.",
	KeyReviewCreated:      "Thanks for your review.",
	KeyProductCreated:     "Product created.",
	KeyProductUpdated:     "Product updated.",
	KeyProductDeleted:     "Product deactivated.",
	KeyProductConflict:    "A product with this SKU or slug already exists.",
	KeyEmptyPatch:         "Nothing to update.",
	KeyUnknownField:       "The request contains fields that cannot be updated.",
	KeyImageUploaded:      "Image uploaded.",
	KeyInvalidImage:       "Only jpg, png, gif or webp images up to the size limit are accepted.",
	KeyRoleUpdated:        "Role updated.",
	KeyInvalidID:          "Invalid identifier.",
}

var japanese = map[string]string{
	KeyOK:                 "OK",
	KeyInternalError:      "エラーが発生しました。しばらくしてから再度お試しください。",
	KeyValidationFailed:   "入力内容に不備があります。",
	KeyUnauthorized:       "続行するにはログインしてください。",
	KeyInvalidToken:       "ログインの有効期限が切れているか、無効です。",
	KeyForbidden:          "この操作を行う権限がありません。",
	KeyNotFound:           "お探しのリソースが見つかりません。",
	KeyConflict:           "現在の状態と競合しています。",
	KeyInvalidCredentials: "メールアドレスまたはパスワードが正しくありません。",
	KeyEmailTaken:         "このメールアドレスは既に登録されています。",
	KeyGoogleDisabled:     "Googleログインは利用できません。",
	KeyGoogleInvalid:      "Googleログインを確認できませんでした。",
	KeyRegistered:         "アカウントを作成しました。",
	KeyLoggedIn:           "ログインしました。",
	KeyLoggedOut:          "ログアウトしました。",
	KeyUserNotFound:       "ユーザーが見つかりません。",
	KeyProductNotFound:    "商品が見つかりません。",
	KeyVariantNotFound:    "この商品では選択できないオプションです。",
	KeyCategoryNotFound:   "カテゴリーが見つかりません。",
	KeyProductInactive:    "この商品は現在販売しておりません。",
	KeyInsufficientStock:  "在庫が不足しています。",
	KeyInvalidQuantity:    "数量は0から99の間で指定してください。",
	KeyCartItemNotFound:   "カートにこの商品はありません。",
	KeyCartEmpty:          "カートが空です。",
	KeyCartUpdated:        "カートを更新しました。",
	KeyCartCleared:        "カートを空にしました。",
	KeyEmailRequired:      "ゲスト購入にはメールアドレスが必要です。",
	KeyOrderNotFound:      "注文が見つかりません。",
	KeyOrderCreated:       "ご注文ありがとうございます。",
	KeyOrderFinalStatus:   "この注文のステータスはこれ以上変更できません。",
	KeyOrderStatusUpdated: "注文ステータスを更新しました。",
	KeyOrderNumberTaken:   "もう一度ご注文をお試しください。",
	KeyStatusChanged:      "注文ステータスが変更されました。再読み込みしてください。",
	KeyInvalidStatus:      "不明な注文ステータスです。",
	KeyReviewExists:       "この商品は既にレビュー済みです。",
	KeyReviewCreated:      "レビューありがとうございます。",
	KeyProductCreated:     "商品を作成しました。",
	KeyProductUpdated:     "商品を更新しました。",
	KeyProductDeleted:     "商品を非公開にしました。",
	KeyProductConflict:    "同じSKUまたはスラッグの商品が既に存在します。",
	KeyEmptyPatch:         "更新する項目がありません。",
	KeyUnknownField:       "更新できない項目が含まれています。",
	KeyImageUploaded:      "画像をアップロードしました。",
	KeyInvalidImage:       "jpg・png・gif・webp形式でサイズ上限以内の画像のみ受け付けます。",
	KeyRoleUpdated:        "権限を更新しました。",
	KeyInvalidID:          "IDが不正です。",
}
