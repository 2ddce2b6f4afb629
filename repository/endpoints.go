package repository

// API endpoint paths, relative to the configured base URL.
const (
	pathLogin      = "/auth/login.php"
	pathLogout     = "/auth/logout.php"
	pathSession    = "/auth/check_session.php"
	pathCheckAdmin = "/auth/check_admin.php"

	pathSearchSets = "/sets/search.php"
	pathGetSet     = "/sets/get_set.php"
	pathLatestSets = "/sets/latest.php"

	pathThemes    = "/themes/get_themes.php"
	pathTheme     = "/themes/get_theme.php"
	pathSubThemes = "/themes/get_subthemes.php"
	pathThemeSets = "/themes/get_theme_sets.php"

	pathCollection       = "/collection/get_collection.php"
	pathCollectionStats  = "/collection/get_stats.php"
	pathCollectionAdd    = "/collection/add_to_collection.php"
	pathCollectionQty    = "/collection/update_quantity.php"
	pathCollectionDone   = "/collection/toggle_complete.php"
	pathCollectionRemove = "/collection/remove_from_collection.php"

	pathWishlist       = "/wishlist/get_wishlist.php"
	pathWishlistAdd    = "/wishlist/add_to_wishlist.php"
	pathWishlistRemove = "/wishlist/remove_from_wishlist.php"
	pathWishlistMove   = "/wishlist/move_to_collection.php"

	pathUserSets      = "/users/get_user_sets.php"
	pathProfile       = "/users/get_profile.php"
	pathUpdateProfile = "/users/update_profile.php"
	pathUploadAvatar  = "/users/upload_avatar.php"

	pathPriceSearch  = "/prices/search_sets.php"
	pathPrices       = "/prices/get_prices.php"
	pathPriceRefresh = "/prices/refresh_prices.php"

	pathBlogPosts      = "/blog/get_posts.php"
	pathBlogCategories = "/blog/get_categories.php"
	pathBlogPost       = "/blog/get_post.php"
	pathBlogComments   = "/blog/get_comments.php"
	pathBlogAddComment = "/blog/add_comment.php"

	pathAdminBlogPosts  = "/admin/blog/get_posts.php"
	pathAdminBlogStats  = "/admin/blog/get_stats.php"
	pathAdminBlogPost   = "/admin/blog/get_post.php"
	pathAdminBlogSave   = "/admin/blog/save_post.php"
	pathAdminBlogDelete = "/admin/blog/delete_post.php"
	pathAdminBlogUpload = "/admin/blog/upload_image.php"

	pathAdminUsers      = "/admin/users/get_users.php"
	pathAdminUserStats  = "/admin/users/get_stats.php"
	pathAdminUserStatus = "/admin/users/update_status.php"
	pathAdminUserDelete = "/admin/users/delete_user.php"

	pathTrophies       = "/admin/trophies/get_trophies.php"
	pathTrophyStats    = "/admin/trophies/get_stats.php"
	pathTrophyCreate   = "/admin/trophies/create_trophy.php"
	pathTrophyDelete   = "/admin/trophies/delete_trophy.php"
	pathUserTrophies   = "/admin/trophies/get_user_trophies.php"
	pathTrophyAssign   = "/admin/trophies/assign_trophy.php"
	pathTrophyUnassign = "/admin/trophies/unassign_trophy.php"

	pathLogs       = "/admin/logs/get_logs.php"
	pathLogStats   = "/admin/logs/get_stats.php"
	pathLogFilters = "/admin/logs/get_filters.php"
)
