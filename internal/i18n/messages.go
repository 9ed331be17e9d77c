package i18n

var dictionaries = map[string]map[string]string{
	French:  french,
	Arabic:  arabic,
	English: english,
}

var french = map[string]string{
	// navigation
	"nav.home":            "Accueil",
	"nav.products":        "Produits",
	"nav.cart":            "Panier",
	"nav.orders":          "Mes commandes",
	"nav.dashboard":       "Tableau de bord",
	"nav.users":           "Utilisateurs",
	"nav.product_types":   "Types de produits",
	"nav.payment_methods": "Modes de paiement",
	"nav.admin_orders":    "Commandes",
	"nav.login":           "Connexion",
	"nav.register":        "Inscription",
	"nav.logout":          "Déconnexion",
	"nav.dark_mode":       "Mode sombre",
	"nav.language":        "Langue",

	// catalog and cart
	"catalog.search":          "Rechercher un produit",
	"catalog.filter_types":    "Types",
	"catalog.price_range":     "Fourchette de prix",
	"catalog.empty":           "Aucun produit ne correspond à votre recherche.",
	"catalog.add_to_cart":     "Ajouter au panier",
	"cart.title":              "Votre panier",
	"cart.empty":              "Votre panier est vide.",
	"cart.total":              "Total",
	"cart.subtotal":           "Sous-total",
	"cart.checkout":           "Passer la commande",
	"cart.price_unavailable":  "Le produit « %s » n'est plus disponible pour ce mode de paiement.",
	"cart.quantity_limit":     "Un produit ne peut pas dépasser 999 unités par commande.",
	"cart.total_limit":        "Le montant de la commande est trop élevé.",
	"cart.updated":            "Panier mis à jour.",
	"checkout.step_contact":   "Coordonnées",
	"checkout.step_review":    "Vérification",
	"checkout.step_submit":    "Confirmation",
	"checkout.facebook":       "Profil Facebook",
	"checkout.instagram":      "Profil Instagram",
	"checkout.notes":          "Remarques",
	"payment.select_title":    "Choisissez votre mode de paiement",
	"payment.select_first":    "Veuillez d'abord choisir un mode de paiement.",
	"payment.selected":        "Mode de paiement sélectionné.",
	"payment.in_use":          "Ce mode de paiement ne peut pas être supprimé : il est utilisé par %d prix et %d commande(s).",
	"payment.delete_confirm":  "Supprimer définitivement ce mode de paiement ? Cette action est irréversible.",
	"type.in_use":             "Ce type ne peut pas être supprimé : %d produit(s) de ce type figurent dans des commandes.",
	"type.delete_confirm":     "Supprimer ce type ? Les %d produit(s) associés resteront en vente sans type.",
	"product.image_invalid":   "L'image doit être un fichier JPEG, PNG, WEBP ou GIF de 4 Mo maximum.",
	"product.image_saved":     "Image du produit enregistrée.",
	"product.duplicate_price": "Un seul prix par mode de paiement est autorisé.",
	"product.unknown_method":  "Mode de paiement inconnu.",
	"product.unknown_type":    "Type de produit inconnu.",
	"product.negative_price":  "Le prix ne peut pas être négatif.",

	// orders
	"order.status.en_attente": "En attente",
	"order.status.confirme":   "Confirmée",
	"order.status.annuler":    "Annulée",
	"order.placed":            "Votre commande n°%d a été enregistrée.",
	"order.confirmed":         "Commande confirmée.",
	"order.cancelled":         "Commande annulée.",
	"order.finalized":         "Cette commande est déjà %s et ne peut plus être modifiée.",
	"order.notes_saved":       "Notes enregistrées.",
	"order.empty_cart":        "Impossible de commander un panier vide.",

	// users
	"user.self_action":   "Vous ne pouvez pas effectuer cette action sur votre propre compte.",
	"user.blocked":       "Utilisateur bloqué.",
	"user.unblocked":     "Utilisateur débloqué.",
	"user.has_orders":    "Cet utilisateur a %d commande(s) et ne peut pas être supprimé. Bloquez-le plutôt.",
	"user.delete_notice": "La suppression est définitive. Un utilisateur ayant des commandes ne peut pas être supprimé : bloquez-le pour conserver son historique.",

	// auth
	"auth.invalid_credentials": "Ces identifiants ne correspondent à aucun compte.",
	"auth.blocked":             "Votre compte a été bloqué. Contactez l'administrateur.",
	"auth.not_verified":        "Veuillez vérifier votre adresse e-mail avant de vous connecter.",
	"auth.already_verified":    "Cette adresse e-mail est déjà vérifiée.",
	"auth.email_taken":         "Cette adresse e-mail est déjà utilisée.",
	"auth.code_sent":           "Un code de vérification à 6 chiffres a été envoyé. Il expire dans %d minutes.",
	"auth.code_invalid":        "Code de vérification incorrect.",
	"auth.code_expired":        "Le code a expiré. Demandez-en un nouveau.",
	"auth.resend_wait":         "Veuillez patienter %d secondes avant de renvoyer le code.",
	"auth.verified":            "Adresse e-mail vérifiée. Bienvenue !",
	"auth.reset_sent":          "Si un compte existe pour cette adresse, un lien de réinitialisation a été envoyé.",
	"auth.reset_invalid":       "Ce lien de réinitialisation est invalide ou a expiré.",
	"auth.password_reset":      "Votre mot de passe a été réinitialisé.",
	"auth.logged_in":           "Connexion réussie.",
	"auth.logged_out":          "Vous êtes déconnecté.",
	"auth.registered":          "Compte créé. Vérifiez votre boîte e-mail.",
	"auth.mail_failed":         "L'e-mail n'a pas pu être envoyé. Réessayez dans un instant.",
	"auth.login_required":      "Veuillez vous connecter.",
	"auth.unauthorized":        "Vous n'avez pas accès à cette page.",
	"auth.too_many_requests":   "Trop de tentatives. Réessayez dans une minute.",

	// password policy
	"password.too_short":    "Le mot de passe doit contenir au moins 8 caractères.",
	"password.no_upper":     "Le mot de passe doit contenir une lettre majuscule.",
	"password.no_lower":     "Le mot de passe doit contenir une lettre minuscule.",
	"password.no_digit":     "Le mot de passe doit contenir un chiffre.",
	"password.no_special":   "Le mot de passe doit contenir un caractère spécial.",
	"password.confirmation": "La confirmation du mot de passe ne correspond pas.",
	"password.weak":         "Faible",
	"password.medium":       "Moyen",
	"password.strong":       "Fort",
	"phone.invalid":         "Le numéro doit comporter 8 chiffres.",

	// validation
	"validation.failed":   "Les données envoyées sont invalides.",
	"validation.required": "Ce champ est obligatoire.",
	"validation.email":    "Adresse e-mail invalide.",
	"validation.max":      "Ce champ ne doit pas dépasser %s caractères.",
	"validation.min":      "Ce champ doit contenir au moins %s caractères.",
	"validation.gte":      "La valeur doit être supérieure ou égale à %s.",
	"validation.gt":       "La valeur doit être supérieure à %s.",
	"validation.oneof":    "Valeur non autorisée.",
	"validation.len":      "Ce champ doit contenir exactement %s caractères.",
	"validation.numeric":  "Ce champ doit être numérique.",
	"validation.eqfield":  "Les valeurs ne correspondent pas.",
	"validation.unique":   "Cette valeur est déjà utilisée.",
	"validation.invalid":  "Valeur invalide.",
	"validation.body":     "Corps de requête invalide.",

	// generic
	"common.created":       "Créé avec succès.",
	"common.updated":       "Mis à jour avec succès.",
	"common.deleted":       "Supprimé avec succès.",
	"common.retrieved":     "Données récupérées.",
	"common.not_found":     "Ressource introuvable.",
	"common.invalid_id":    "Identifiant invalide.",
	"common.server_error":  "Une erreur est survenue. Veuillez réessayer.",
	"common.confirm":       "Confirmer",
	"common.cancel":        "Annuler",
	"common.delete":        "Supprimer",
	"common.edit":          "Modifier",
	"common.save":          "Enregistrer",
	"common.search":        "Rechercher",
	"common.previous":      "Précédent",
	"common.next":          "Suivant",
	"common.currency_note": "Tous les prix sont en dinars tunisiens (TND).",
}

var arabic = map[string]string{
	"nav.home":            "الرئيسية",
	"nav.products":        "المنتجات",
	"nav.cart":            "السلة",
	"nav.orders":          "طلباتي",
	"nav.dashboard":       "لوحة التحكم",
	"nav.users":           "المستخدمون",
	"nav.product_types":   "أنواع المنتجات",
	"nav.payment_methods": "طرق الدفع",
	"nav.admin_orders":    "الطلبات",
	"nav.login":           "تسجيل الدخول",
	"nav.register":        "إنشاء حساب",
	"nav.logout":          "تسجيل الخروج",
	"nav.dark_mode":       "الوضع الداكن",
	"nav.language":        "اللغة",

	"catalog.search":          "ابحث عن منتج",
	"catalog.filter_types":    "الأنواع",
	"catalog.price_range":     "نطاق السعر",
	"catalog.empty":           "لا توجد منتجات مطابقة لبحثك.",
	"catalog.add_to_cart":     "أضف إلى السلة",
	"cart.title":              "سلتك",
	"cart.empty":              "سلتك فارغة.",
	"cart.total":              "المجموع",
	"cart.subtotal":           "المجموع الفرعي",
	"cart.checkout":           "إتمام الطلب",
	"cart.price_unavailable":  "المنتج «%s» لم يعد متوفراً بطريقة الدفع هذه.",
	"cart.quantity_limit":     "لا يمكن أن تتجاوز كمية المنتج 999 وحدة في الطلب.",
	"cart.total_limit":        "مبلغ الطلب مرتفع جداً.",
	"cart.updated":            "تم تحديث السلة.",
	"checkout.step_contact":   "معلومات الاتصال",
	"checkout.step_review":    "المراجعة",
	"checkout.step_submit":    "التأكيد",
	"checkout.facebook":       "حساب فيسبوك",
	"checkout.instagram":      "حساب إنستغرام",
	"checkout.notes":          "ملاحظات",
	"payment.select_title":    "اختر طريقة الدفع",
	"payment.select_first":    "يرجى اختيار طريقة الدفع أولاً.",
	"payment.selected":        "تم اختيار طريقة الدفع.",
	"payment.in_use":          "لا يمكن حذف طريقة الدفع هذه: إنها مستخدمة في %d سعر و %d طلب.",
	"payment.delete_confirm":  "هل تريد حذف طريقة الدفع هذه نهائياً؟ لا يمكن التراجع عن هذا الإجراء.",
	"type.in_use":             "لا يمكن حذف هذا النوع: %d منتج من هذا النوع موجود في طلبات.",
	"type.delete_confirm":     "هل تريد حذف هذا النوع؟ ستبقى المنتجات المرتبطة (%d) معروضة بدون نوع.",
	"product.image_invalid":   "يجب أن تكون الصورة بصيغة JPEG أو PNG أو WEBP أو GIF وبحجم أقصى 4 ميغابايت.",
	"product.image_saved":     "تم حفظ صورة المنتج.",
	"product.duplicate_price": "يسمح بسعر واحد فقط لكل طريقة دفع.",
	"product.unknown_method":  "طريقة دفع غير معروفة.",
	"product.unknown_type":    "نوع منتج غير معروف.",
	"product.negative_price":  "لا يمكن أن يكون السعر سالباً.",

	"order.status.en_attente": "قيد الانتظار",
	"order.status.confirme":   "مؤكد",
	"order.status.annuler":    "ملغى",
	"order.placed":            "تم تسجيل طلبك رقم %d.",
	"order.confirmed":         "تم تأكيد الطلب.",
	"order.cancelled":         "تم إلغاء الطلب.",
	"order.finalized":         "هذا الطلب %s ولا يمكن تعديله.",
	"order.notes_saved":       "تم حفظ الملاحظات.",
	"order.empty_cart":        "لا يمكن الطلب بسلة فارغة.",

	"user.self_action":   "لا يمكنك القيام بهذا الإجراء على حسابك الخاص.",
	"user.blocked":       "تم حظر المستخدم.",
	"user.unblocked":     "تم إلغاء حظر المستخدم.",
	"user.has_orders":    "لدى هذا المستخدم %d طلب ولا يمكن حذفه. قم بحظره بدلاً من ذلك.",
	"user.delete_notice": "الحذف نهائي. لا يمكن حذف مستخدم لديه طلبات، قم بحظره للحفاظ على سجل طلباته.",

	"auth.invalid_credentials": "بيانات الدخول غير صحيحة.",
	"auth.blocked":             "تم حظر حسابك. يرجى التواصل مع الإدارة.",
	"auth.not_verified":        "يرجى تأكيد بريدك الإلكتروني قبل تسجيل الدخول.",
	"auth.already_verified":    "هذا البريد الإلكتروني مؤكد مسبقاً.",
	"auth.email_taken":         "هذا البريد الإلكتروني مستخدم بالفعل.",
	"auth.code_sent":           "تم إرسال رمز تحقق من 6 أرقام. تنتهي صلاحيته بعد %d دقيقة.",
	"auth.code_invalid":        "رمز التحقق غير صحيح.",
	"auth.code_expired":        "انتهت صلاحية الرمز. اطلب رمزاً جديداً.",
	"auth.resend_wait":         "يرجى الانتظار %d ثانية قبل إعادة الإرسال.",
	"auth.verified":            "تم تأكيد البريد الإلكتروني. مرحباً بك!",
	"auth.reset_sent":          "إذا كان هناك حساب بهذا البريد، فقد تم إرسال رابط إعادة التعيين.",
	"auth.reset_invalid":       "رابط إعادة التعيين غير صالح أو منتهي الصلاحية.",
	"auth.password_reset":      "تمت إعادة تعيين كلمة المرور.",
	"auth.logged_in":           "تم تسجيل الدخول بنجاح.",
	"auth.logged_out":          "تم تسجيل الخروج.",
	"auth.registered":          "تم إنشاء الحساب. تحقق من بريدك الإلكتروني.",
	"auth.mail_failed":         "تعذر إرسال البريد الإلكتروني. حاول مرة أخرى بعد قليل.",
	"auth.login_required":      "يرجى تسجيل الدخول.",
	"auth.unauthorized":        "ليس لديك صلاحية الوصول إلى هذه الصفحة.",
	"auth.too_many_requests":   "محاولات كثيرة. حاول مرة أخرى بعد دقيقة.",

	"password.too_short":    "يجب أن تحتوي كلمة المرور على 8 أحرف على الأقل.",
	"password.no_upper":     "يجب أن تحتوي كلمة المرور على حرف كبير.",
	"password.no_lower":     "يجب أن تحتوي كلمة المرور على حرف صغير.",
	"password.no_digit":     "يجب أن تحتوي كلمة المرور على رقم.",
	"password.no_special":   "يجب أن تحتوي كلمة المرور على رمز خاص.",
	"password.confirmation": "تأكيد كلمة المرور غير مطابق.",
	"password.weak":         "ضعيفة",
	"password.medium":       "متوسطة",
	"password.strong":       "قوية",
	"phone.invalid":         "يجب أن يتكون الرقم من 8 أرقام.",

	"validation.failed":   "البيانات المرسلة غير صالحة.",
	"validation.required": "هذا الحقل إجباري.",
	"validation.email":    "بريد إلكتروني غير صالح.",
	"validation.max":      "يجب ألا يتجاوز هذا الحقل %s حرفاً.",
	"validation.min":      "يجب أن يحتوي هذا الحقل على %s أحرف على الأقل.",
	"validation.gte":      "يجب أن تكون القيمة أكبر من أو تساوي %s.",
	"validation.gt":       "يجب أن تكون القيمة أكبر من %s.",
	"validation.oneof":    "قيمة غير مسموح بها.",
	"validation.len":      "يجب أن يحتوي هذا الحقل على %s أحرف بالضبط.",
	"validation.numeric":  "يجب أن يكون هذا الحقل رقمياً.",
	"validation.eqfield":  "القيم غير متطابقة.",
	"validation.unique":   "هذه القيمة مستخدمة بالفعل.",
	"validation.invalid":  "قيمة غير صالحة.",
	"validation.body":     "محتوى الطلب غير صالح.",

	"common.created":       "تم الإنشاء بنجاح.",
	"common.updated":       "تم التحديث بنجاح.",
	"common.deleted":       "تم الحذف بنجاح.",
	"common.retrieved":     "تم جلب البيانات.",
	"common.not_found":     "العنصر غير موجود.",
	"common.invalid_id":    "معرف غير صالح.",
	"common.server_error":  "حدث خطأ. يرجى المحاولة مرة أخرى.",
	"common.confirm":       "تأكيد",
	"common.cancel":        "إلغاء",
	"common.delete":        "حذف",
	"common.edit":          "تعديل",
	"common.save":          "حفظ",
	"common.search":        "بحث",
	"common.previous":      "السابق",
	"common.next":          "التالي",
	"common.currency_note": "جميع الأسعار بالدينار التونسي (TND).",
}

var english = map[string]string{
	"nav.home":            "Home",
	"nav.products":        "Products",
	"nav.cart":            "Cart",
	"nav.orders":          "My orders",
	"nav.dashboard":       "Dashboard",
	"nav.users":           "Users",
	"nav.product_types":   "Product types",
	"nav.payment_methods": "Payment methods",
	"nav.admin_orders":    "Orders",
	"nav.login":           "Log in",
	"nav.register":        "Sign up",
	"nav.logout":          "Log out",
	"nav.dark_mode":       "Dark mode",
	"nav.language":        "Language",

	"catalog.search":          "Search products",
	"catalog.filter_types":    "Types",
	"catalog.price_range":     "Price range",
	"catalog.empty":           "No product matches your search.",
	"catalog.add_to_cart":     "Add to cart",
	"cart.title":              "Your cart",
	"cart.empty":              "Your cart is empty.",
	"cart.total":              "Total",
	"cart.subtotal":           "Subtotal",
	"cart.checkout":           "Checkout",
	"cart.price_unavailable":  "\"%s\" is no longer available with this payment method.",
	"cart.quantity_limit":     "A product cannot exceed 999 units per order.",
	"cart.total_limit":        "The order amount is too high.",
	"cart.updated":            "Cart updated.",
	"checkout.step_contact":   "Contact details",
	"checkout.step_review":    "Review",
	"checkout.step_submit":    "Confirmation",
	"checkout.facebook":       "Facebook profile",
	"checkout.instagram":      "Instagram profile",
	"checkout.notes":          "Notes",
	"payment.select_title":    "Choose your payment method",
	"payment.select_first":    "Please choose a payment method first.",
	"payment.selected":        "Payment method selected.",
	"payment.in_use":          "This payment method cannot be deleted: it is used by %d price(s) and %d order(s).",
	"payment.delete_confirm":  "Permanently delete this payment method? This cannot be undone.",
	"type.in_use":             "This type cannot be deleted: %d product(s) of this type appear in orders.",
	"type.delete_confirm":     "Delete this type? Its %d product(s) will stay on sale without a type.",
	"product.image_invalid":   "The image must be a JPEG, PNG, WEBP or GIF file of at most 4 MB.",
	"product.image_saved":     "Product image saved.",
	"product.duplicate_price": "Only one price per payment method is allowed.",
	"product.unknown_method":  "Unknown payment method.",
	"product.unknown_type":    "Unknown product type.",
	"product.negative_price":  "The price cannot be negative.",

	"order.status.en_attente": "Pending",
	"order.status.confirme":   "Confirmed",
	"order.status.annuler":    "Cancelled",
	"order.placed":            "Your order #%d has been placed.",
	"order.confirmed":         "Order confirmed.",
	"order.cancelled":         "Order cancelled.",
	"order.finalized":         "This order is already %s and can no longer change.",
	"order.notes_saved":       "Notes saved.",
	"order.empty_cart":        "Cannot order an empty cart.",

	"user.self_action":   "You cannot perform this action on your own account.",
	"user.blocked":       "User blocked.",
	"user.unblocked":     "User unblocked.",
	"user.has_orders":    "This user has %d order(s) and cannot be deleted. Block the account instead.",
	"user.delete_notice": "Deletion is permanent. Users with orders cannot be deleted: block them to keep their order history.",

	"auth.invalid_credentials": "These credentials do not match our records.",
	"auth.blocked":             "Your account has been blocked. Contact the administrator.",
	"auth.not_verified":        "Please verify your email address before logging in.",
	"auth.already_verified":    "This email address is already verified.",
	"auth.email_taken":         "This email address is already taken.",
	"auth.code_sent":           "A 6-digit verification code has been sent. It expires in %d minutes.",
	"auth.code_invalid":        "Incorrect verification code.",
	"auth.code_expired":        "The code has expired. Request a new one.",
	"auth.resend_wait":         "Please wait %d seconds before resending the code.",
	"auth.verified":            "Email verified. Welcome!",
	"auth.reset_sent":          "If an account exists for this address, a reset link has been sent.",
	"auth.reset_invalid":       "This reset link is invalid or has expired.",
	"auth.password_reset":      "Your password has been reset.",
	"auth.logged_in":           "Logged in.",
	"auth.logged_out":          "You are logged out.",
	"auth.registered":          "Account created. Check your inbox.",
	"auth.mail_failed":         "The email could not be sent. Try again in a moment.",
	"auth.login_required":      "Please log in.",
	"auth.unauthorized":        "You do not have access to this page.",
	"auth.too_many_requests":   "Too many attempts. Try again in a minute.",

	"password.too_short":    "The password must be at least 8 characters.",
	"password.no_upper":     "The password must contain an uppercase letter.",
	"password.no_lower":     "The password must contain a lowercase letter.",
	"password.no_digit":     "The password must contain a digit.",
	"password.no_special":   "The password must contain a special character.",
	"password.confirmation": "The password confirmation does not match.",
	"password.weak":         "Weak",
	"password.medium":       "Medium",
	"password.strong":       "Strong",
	"phone.invalid":         "The number must have 8 digits.",

	"validation.failed":   "The given data was invalid.",
	"validation.required": "This field is required.",
	"validation.email":    "Invalid email address.",
	"validation.max":      "This field may not be longer than %s characters.",
	"validation.min":      "This field must be at least %s characters.",
	"validation.gte":      "The value must be greater than or equal to %s.",
	"validation.gt":       "The value must be greater than %s.",
	"validation.oneof":    "Value not allowed.",
	"validation.len":      "This field must be exactly %s characters.",
	"validation.numeric":  "This field must be numeric.",
	"validation.eqfield":  "The values do not match.",
	"validation.unique":   "This value is already taken.",
	"validation.invalid":  "Invalid value.",
	"validation.body":     "Invalid request body.",

	"common.created":       "Created successfully.",
	"common.updated":       "Updated successfully.",
	"common.deleted":       "Deleted successfully.",
	"common.retrieved":     "Data retrieved.",
	"common.not_found":     "Resource not found.",
	"common.invalid_id":    "Invalid identifier.",
	"common.server_error":  "Something went wrong. Please try again.",
	"common.confirm":       "Confirm",
	"common.cancel":        "Cancel",
	"common.delete":        "Delete",
	"common.edit":          "Edit",
	"common.save":          "Save",
	"common.search":        "Search",
	"common.previous":      "Previous",
	"common.next":          "Next",
	"common.currency_note": "All prices are in Tunisian dinars (TND).",
}
